package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pkt.systems/pslog"

	"vppsh/pkg/history"
	"vppsh/pkg/telopt"
)

// ErrEmptyCommand rejects blank one-shot commands.
var ErrEmptyCommand = errors.New("command cannot be empty")

// execHeight keeps the CLI pager out of the way for non-interactive output.
const execHeight = 65535

// ExecOptions configures Exec.
type ExecOptions struct {
	Negotiator telopt.Negotiator
	Prompt     []byte
	Width      int
	// Timeout bounds each command; zero means no limit.
	Timeout time.Duration
}

// ValidateCommand reports whether cmd may be sent in one-shot mode.
func ValidateCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return ErrEmptyCommand
	}
	return nil
}

type deadliner interface {
	SetReadDeadline(time.Time) error
}

// Exec runs commands one after another on conn and copies each command's
// output to out. It waits for the first prompt, sends a command, and prints
// what the CLI returns between the echoed command line and the next prompt,
// with telnet commands removed and CRLF folded to LF.
func Exec(ctx context.Context, conn io.ReadWriter, commands []string, out io.Writer, opts ExecOptions) error {
	for _, c := range commands {
		if err := ValidateCommand(c); err != nil {
			return err
		}
	}
	prompt := opts.Prompt
	if len(prompt) == 0 {
		prompt = []byte(history.DefaultPrompt)
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultSize.Width
	}
	logger := pslog.Ctx(ctx)

	if err := opts.Negotiator.Announce(conn, width, execHeight); err != nil {
		return fmt.Errorf("negotiate: %w", err)
	}
	r := &promptReader{conn: conn, prompt: prompt}
	if _, err := r.untilPrompt(ctx, opts.Timeout); err != nil {
		return fmt.Errorf("wait for prompt: %w", err)
	}

	for _, c := range commands {
		logger.Debug("exec command", "command", c)
		if _, err := io.WriteString(conn, c+"\n"); err != nil {
			return fmt.Errorf("send %q: %w", c, err)
		}
		body, err := r.untilPrompt(ctx, opts.Timeout)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("exec %q: %w", c, err)
		}
		if _, werr := out.Write(commandOutput(body)); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		if err != nil {
			return fmt.Errorf("exec %q: connection closed before prompt: %w", c, err)
		}
	}
	return nil
}

// commandOutput drops the echoed command line and normalizes line ends.
func commandOutput(body []byte) []byte {
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	body = bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))
	body = bytes.ReplaceAll(body, []byte("\r"), nil)
	return body
}

type promptReader struct {
	conn   io.Reader
	prompt []byte
	strip  telopt.Stripper
	buf    []byte
}

// untilPrompt reads until the stripped stream ends with the prompt and
// returns everything before it.
func (r *promptReader) untilPrompt(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if d, ok := r.conn.(deadliner); ok && timeout > 0 {
		_ = d.SetReadDeadline(time.Now().Add(timeout))
		defer func() { _ = d.SetReadDeadline(time.Time{}) }()
	}
	chunk := make([]byte, readFrame)
	for {
		if i := bytes.LastIndex(r.buf, r.prompt); i >= 0 && i+len(r.prompt) == len(r.buf) {
			body := append([]byte(nil), r.buf[:i]...)
			r.buf = r.buf[:0]
			return body, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.conn.Read(chunk)
		if n > 0 {
			r.buf = append(r.buf, r.strip.Strip(chunk[:n])...)
		}
		if err != nil {
			body := append([]byte(nil), r.buf...)
			r.buf = r.buf[:0]
			return body, err
		}
	}
}
