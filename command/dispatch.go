package command

import (
	"github.com/sashwm/sash/wm"
	"github.com/sashwm/sash/wmerrors"
)

// Dispatch maps an argv slice (already split the way a shell would) to
// the matching command function and flattens its result into the
// output-buffer + exit-code contract of spec §6.
func Dispatch(w *wm.World, argv []string) (output, errKind, errMsg string, exitCode int) {
	if len(argv) == 0 {
		return "", wmerrors.InvalidArgument.String(), "empty command", wmerrors.InvalidArgument.ExitCode()
	}

	var out string
	var err *wmerrors.Error

	switch argv[0] {
	case "close":
		out, err = Close(w, argAt(argv, 1))
	case "set_property":
		out, err = SetProperty(w, argAt(argv, 1), argAt(argv, 2))
	case "tag":
		out, err = dispatchTag(w, argv[1:])
	case "monitor":
		out, err = dispatchMonitor(w, argv[1:])
	default:
		err = wmerrors.New(wmerrors.InvalidArgument, "unknown command: "+argv[0])
	}

	w.Reconcile()

	if err != nil {
		return out, err.Kind.String(), err.Message, err.Kind.ExitCode()
	}
	return out, "", "", 0
}

func dispatchTag(w *wm.World, args []string) (string, *wmerrors.Error) {
	if len(args) == 0 {
		return "", wmerrors.New(wmerrors.InvalidArgument, "tag: missing subcommand")
	}
	switch args[0] {
	case "add":
		return TagAdd(w, argAt(args, 1))
	case "remove":
		return TagRemove(w, argAt(args, 1))
	case "rename":
		return TagRename(w, argAt(args, 1), argAt(args, 2))
	case "move":
		return TagMove(w, argAt(args, 1), argAt(args, 2))
	case "floating":
		return TagFloating(w, argAt(args, 1), argAt(args, 2))
	default:
		return "", wmerrors.New(wmerrors.InvalidArgument, "tag: unknown subcommand: "+args[0])
	}
}

func dispatchMonitor(w *wm.World, args []string) (string, *wmerrors.Error) {
	if len(args) == 0 || args[0] != "focus" {
		return "", wmerrors.New(wmerrors.InvalidArgument, "monitor: unknown subcommand")
	}
	return MonitorFocus(w, argAt(args, 1))
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
