package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"steamwork/config"
	"steamwork/history"
	"steamwork/inspect"
)

func runHistory(ctx context.Context, cfg config.Config, opts HistoryOptions) error {
	return historyTo(ctx, os.Stdout, cfg, opts)
}

func historyTo(ctx context.Context, w io.Writer, cfg config.Config, opts HistoryOptions) error {
	if cfg.HistoryDB == "" {
		return errors.New("history_db is not set")
	}
	j, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer j.Close()

	// Open starts a session of its own, list the newest recorded one
	session := ""
	if !opts.All {
		latest, err := j.Recent(ctx, "", 1)
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			fmt.Fprintln(w, "No rounds recorded")
			return nil
		}
		session = latest[0].SessionID
	}

	rounds, err := j.Recent(ctx, session, opts.Limit)
	if err != nil {
		return err
	}

	tbl := inspect.NewTable(
		inspect.ColumnSpec{Header: "When"},
		inspect.ColumnSpec{Header: "Session"},
		inspect.ColumnSpec{Header: "Build"},
		inspect.ColumnSpec{Header: "Source"},
		inspect.ColumnSpec{Header: "Keys"},
		inspect.ColumnSpec{Header: "Rarity"},
		inspect.ColumnSpec{Header: "Outcome"},
		inspect.ColumnSpec{Header: "ms"},
	)
	for _, r := range rounds {
		tbl.AddRow(
			time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04:05"),
			shortID(r.SessionID),
			fmt.Sprint(r.Build),
			r.Source,
			r.Keys,
			fmt.Sprint(r.Rarity),
			r.Outcome,
			fmt.Sprint(r.DurationMS),
		)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}

	sum, err := j.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d rounds over %d sessions: %d entered, %d timed out, %d aborted\n",
		sum.Rounds, sum.Sessions,
		sum.Outcomes[history.OutcomeEntered], sum.Outcomes[history.OutcomeTimeout], sum.Outcomes[history.OutcomeAborted])
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
