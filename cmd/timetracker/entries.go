package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/maloquacious/timetracker/internal/entry"
)

func (a *app) entryCmds() []*cobra.Command {
	var (
		seconds int64
		date    string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an elapsed time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDraft(seconds, date)
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			a.log.Debug("added entry %d", e.ID)
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&seconds, "seconds", 0, "elapsed seconds")
	addCmd.Flags().StringVar(&date, "date", "", "date of the entry (YYYY-MM-DD or RFC 3339, default now)")
	_ = addCmd.MarkFlagRequired("seconds")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a single entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}

	var (
		putSeconds int64
		putDate    string
	)
	putCmd := &cobra.Command{
		Use:   "put ID",
		Short: "Replace an existing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := parseDraft(putSeconds, putDate)
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.Put(cmd.Context(), entry.Entry{ID: id, Seconds: d.Seconds, Date: d.Date})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	putCmd.Flags().Int64Var(&putSeconds, "seconds", 0, "elapsed seconds")
	putCmd.Flags().StringVar(&putDate, "date", "", "date of the entry (YYYY-MM-DD or RFC 3339, default now)")
	_ = putCmd.MarkFlagRequired("seconds")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Permanently remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			a.log.Info("deleted entry %d", id)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return nil
		},
	}

	var (
		from, to string
		today    bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, optionally within a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rangeFlags(from, to, today)
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ListByDate(cmd.Context(), r)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No entries found.")
				return nil
			}
			for _, e := range entries {
				printEntry(w, e)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&from, "from", "", "earliest date (inclusive)")
	listCmd.Flags().StringVar(&to, "to", "", "latest date (inclusive)")
	listCmd.Flags().BoolVar(&today, "today", false, "only today's entries")

	var (
		reportFrom, reportTo string
		reportToday          bool
	)
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize tracked time within a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rangeFlags(reportFrom, reportTo, reportToday)
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ListByDate(cmd.Context(), r)
			if err != nil {
				return err
			}
			total, err := s.TotalSeconds(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries, %s total\n", len(entries), entry.FormatSeconds(total))
			return nil
		},
	}
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "earliest date (inclusive)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "latest date (inclusive)")
	reportCmd.Flags().BoolVar(&reportToday, "today", false, "only today")

	return []*cobra.Command{addCmd, getCmd, putCmd, deleteCmd, listCmd, reportCmd}
}

func parseDraft(seconds int64, date string) (entry.Draft, error) {
	d := entry.Draft{Seconds: seconds, Date: time.Now()}
	if date != "" {
		t, err := entry.ParseDate(date)
		if err != nil {
			return entry.Draft{}, err
		}
		d.Date = t
	}
	return d, d.Validate()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func rangeFlags(from, to string, today bool) (entry.Range, error) {
	if today {
		if from != "" || to != "" {
			return entry.Range{}, fmt.Errorf("--today cannot be combined with --from/--to")
		}
		return entry.Day(time.Now()), nil
	}
	return entry.ParseRange(from, to)
}

func printEntry(w io.Writer, e entry.Entry) {
	fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Date.Format(time.RFC3339), entry.FormatSeconds(e.Seconds))
}
