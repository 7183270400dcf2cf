package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// editorArgs splits an editor command such as "code --wait" and appends the
// "+<line>" jump and the file path.
func editorArgs(editor string, line int, path string) (string, []string, error) {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return "", nil, errors.New("no editor configured")
	}
	args := make([]string, 0, len(parts)+1)
	args = append(args, parts[1:]...)
	args = append(args, fmt.Sprintf("+%d", line), path)
	return parts[0], args, nil
}

func launchEditor(ctx context.Context, editor string, line int, path string) error {
	name, args, err := editorArgs(editor, line, path)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
