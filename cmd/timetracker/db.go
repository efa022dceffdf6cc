package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maloquacious/timetracker/internal/store"
	"github.com/maloquacious/timetracker/internal/store/sqlite"
)

func (a *app) dbCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create and initialize the datastore",
		Args:  cobra.NoArgs,
		RunE:  a.runDBCreate,
	}
	dbUpgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Declare the current schema version on an uninitialized datastore",
		Args:  cobra.NoArgs,
		RunE:  a.runDBUpgrade,
	}
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify schema integrity and version",
		Args:  cobra.NoArgs,
		RunE:  a.runDBVerify,
	}

	dbCmd.AddCommand(dbCreateCmd, dbUpgradeCmd, dbVerifyCmd)
	return dbCmd
}

func (a *app) runDBCreate(cmd *cobra.Command, args []string) error {
	storePath := store.GetStorePath(a.cfg.StoreDir)
	exists, err := store.CheckExists(storePath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("datastore already exists: %s", a.dbPath())
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	a.log.Info("created datastore %s at schema version %s", s.Path(), store.SchemaVersion)
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (schema %s)\n", s.Path(), store.SchemaVersion)
	return nil
}

func (a *app) runDBUpgrade(cmd *cobra.Command, args []string) error {
	exists, err := store.CheckExists(store.GetStorePath(a.cfg.StoreDir))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("datastore not found: %s (run 'timetracker db create')", a.dbPath())
	}

	s := sqlite.New(a.dbPath(), store.SchemaVersion)
	if err := s.Open(); err != nil {
		return err
	}
	defer s.Close()

	state, err := s.CheckState()
	if err != nil {
		return err
	}
	switch state {
	case store.StateReady:
		fmt.Fprintf(cmd.OutOrStdout(), "already at schema %s\n", store.SchemaVersion)
		return nil
	case store.StateUninitialized:
		if err := s.InitSchema(store.SchemaVersion); err != nil {
			return err
		}
		a.log.Info("initialized %s at schema version %s", s.Path(), store.SchemaVersion)
		fmt.Fprintf(cmd.OutOrStdout(), "upgraded to schema %s\n", store.SchemaVersion)
		return nil
	default:
		version, _ := s.GetSchemaVersion()
		return fmt.Errorf("%w: database has %q, expected %q", store.ErrVersionMismatch, version, store.SchemaVersion)
	}
}

type verifyReport struct {
	Path          string `json:"path"`
	State         string `json:"state"`
	SchemaVersion string `json:"schemaVersion"`
	Entries       int64  `json:"entries"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
}

func (a *app) runDBVerify(cmd *cobra.Command, args []string) error {
	report := verifyReport{Path: a.dbPath(), State: store.StateMissing.String()}
	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")

	exists, err := store.CheckExists(store.GetStorePath(a.cfg.StoreDir))
	if err != nil {
		return err
	}
	if !exists {
		report.Error = "datastore not found"
		_ = out.Encode(report)
		return errors.New(report.Error)
	}

	s := sqlite.New(a.dbPath(), store.SchemaVersion)
	if err := s.Open(); err != nil {
		return err
	}
	defer s.Close()

	state, _ := s.CheckState()
	report.State = state.String()
	report.SchemaVersion, _ = s.GetSchemaVersion()

	if err := s.Verify(cmd.Context()); err != nil {
		report.Error = err.Error()
		_ = out.Encode(report)
		return err
	}
	report.Entries, err = s.Count(cmd.Context())
	if err != nil {
		return err
	}
	report.OK = true
	return out.Encode(report)
}
