package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console drives m from line commands read from r and writes the rendered
// snapshot to w after each one. It returns on EOF, "exit" or cancellation
// of ctx between commands.
//
//	sync             trigger a manual sync
//	refresh | Enter  reload status and suppressions
//	show             redraw without reloading
//	exit | quit      leave
func Console(ctx context.Context, m *Monitor, r io.Reader, w io.Writer) error {
	if err := m.Snapshot().Render(w); err != nil {
		return err
	}

	reader := bufio.NewReader(r)
	for {
		fmt.Fprint(w, "monitor> ")
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		switch cmd := strings.TrimSpace(line); cmd {
		case "exit", "quit":
			return nil
		case "sync":
			if err := m.TriggerSync(ctx); errors.Is(err, ErrSyncUnavailable) {
				fmt.Fprintln(w, "Sync is already running.")
			}
		case "", "refresh":
			_ = m.Refresh(ctx)
		case "show":
		case "help":
			fmt.Fprintln(w, "Commands: sync, refresh, show, exit")
			continue
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
			continue
		}

		if err := m.Snapshot().Render(w); err != nil {
			return err
		}
	}
}
