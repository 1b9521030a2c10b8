// Package main provides the CLI entrypoint for kindling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kindling-cli/kindling/calendar"
	"github.com/kindling-cli/kindling/grace"
	"github.com/kindling-cli/kindling/internal/config"
	"github.com/kindling-cli/kindling/internal/report"
	"github.com/kindling-cli/kindling/internal/store"
	"github.com/kindling-cli/kindling/streak"
)

const defaultProfile = "default"

var (
	profileName  string
	dbPath       string
	maxPerWeek   int
	weekendPause bool
	noGrace      bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kindling",
		Short:         "Daily streak keeper with grace-day protection",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStatusCmd,
	}

	rootCmd.PersistentFlags().StringVar(&profileName, "profile", defaultProfile, "profile to operate on")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().IntVar(&maxPerWeek, "max-per-week", grace.DefaultMaxPerWeek, "grace days allowed per week")
	rootCmd.PersistentFlags().BoolVar(&weekendPause, "weekend-pause", false, "mark weekends as paused (not consulted by streak replay)")
	rootCmd.PersistentFlags().BoolVar(&noGrace, "no-grace", false, "disable grace-day protection")

	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// session bundles the store and merged state every command works with.
type session struct {
	store *store.Store
	state grace.State
	today calendar.Day
}

func openSession(cmd *cobra.Command) (*session, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "profile", &profileName, fileCfg.Profile.Name)
	applyIntConfig(cmd, "max-per-week", &maxPerWeek, fileCfg.Streak.MaxPerWeek)
	applyBoolConfig(cmd, "weekend-pause", &weekendPause, fileCfg.Streak.WeekendPause)
	if fileCfg.Streak.Enabled != nil && !cmd.Flags().Changed("no-grace") {
		noGrace = !*fileCfg.Streak.Enabled
	}
	if maxPerWeek <= 0 {
		return nil, fmt.Errorf("--max-per-week must be > 0")
	}

	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	state, err := st.Load(context.Background(), profileName)
	if err != nil {
		closeStore(st)
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	// Settings come from config and flags; the store only owns the ledger.
	state.Enabled = !noGrace
	state.MaxPerWeek = maxPerWeek
	state.WeekendPause = weekendPause

	return &session{store: st, state: state, today: calendar.Today(nil)}, nil
}

func (s *session) close() {
	closeStore(s.store)
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// persist writes the state back. Failures are logged, not fatal: the
// computation already happened, only durability is lost.
func (s *session) persist(ctx context.Context, state grace.State) {
	if err := s.store.Save(ctx, profileName, state); err != nil {
		logErrf("failed to persist state: %v\n", err)
	}
}

func (s *session) renderStatus(cmd *cobra.Command) error {
	ctx := context.Background()
	activity, err := s.store.ListActivity(ctx, profileName)
	if err != nil {
		return err
	}
	st := report.Status{
		Profile:      profileName,
		Today:        s.today,
		Result:       streak.Calculate(activity, s.state, s.today),
		Availability: grace.CheckAvailability(s.state, s.today),
		Activity:     activity,
	}
	return report.RenderStatus(cmd.OutOrStdout(), st, report.TerminalWidth())
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current streak and grace-day quota",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()
	return sess.renderStatus(cmd)
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [DATE]",
		Short: "Record a day of activity (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLogCmd,
	}
}

func runLogCmd(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	day := sess.today
	if len(args) == 1 {
		if day, err = calendar.ParseDay(args[0]); err != nil {
			return err
		}
		if day.After(sess.today) {
			return fmt.Errorf("cannot log activity in the future (%s)", day)
		}
	}
	ctx := context.Background()
	if err := sess.store.LogActivity(ctx, profileName, day); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Logged activity for %s.\n", day); err != nil {
		return err
	}
	return sess.renderStatus(cmd)
}

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Spend a grace day on yesterday's missed day",
		Args:  cobra.NoArgs,
		RunE:  runSaveCmd,
	}
}

func runSaveCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()
	ctx := context.Background()
	out := cmd.OutOrStdout()

	last, err := sess.store.LastActivity(ctx, profileName)
	if err != nil {
		return err
	}
	if last.IsZero() {
		_, err := fmt.Fprintln(out, "No activity recorded yet; nothing to protect.")
		return err
	}

	decision := grace.EvaluateGap(sess.state, last, sess.today)
	if !decision.CanProtect {
		// A refusal is an expected outcome, not an error.
		if _, err := fmt.Fprintf(out, "Cannot protect: %s\n", decision.Reason); err != nil {
			return err
		}
		return report.RenderAvailability(out, grace.CheckAvailability(sess.state, sess.today))
	}

	activity, err := sess.store.ListActivity(ctx, profileName)
	if err != nil {
		return err
	}
	// Record the streak the heal rescues: replay against a previewed
	// ledger that already contains the healed day.
	preview, err := grace.Consume(sess.state, decision.MissedDate, 0, sess.today)
	if err != nil {
		return err
	}
	rescued := streak.Calculate(activity, preview, sess.today)

	next, err := grace.Consume(sess.state, decision.MissedDate, rescued.Current, sess.today)
	if err != nil {
		return err
	}
	sess.persist(ctx, next)
	sess.state = next

	if _, err := fmt.Fprintf(out, "Protected %s; streak preserved at %d.\n",
		decision.MissedDate, rescued.Effective); err != nil {
		return err
	}
	return sess.renderStatus(cmd)
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the grace-day ledger",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()
	return report.RenderHistory(cmd.OutOrStdout(), sess.state.History)
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Drop ledger entries older than 52 weeks",
		Args:  cobra.NoArgs,
		RunE:  runCleanupCmd,
	}
}

func runCleanupCmd(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	cleaned := grace.CleanupOldUsage(sess.state, sess.today)
	dropped := len(sess.state.History) - len(cleaned.History)
	if dropped > 0 {
		sess.persist(context.Background(), cleaned)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d ledger entries.\n", dropped)
	return err
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all state and activity for the profile",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("reset deletes the profile's streak history; re-run with --yes to confirm")
	}
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.store.Clear(context.Background(), profileName); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q reset.\n", profileName)
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kindling configuration
# Uncomment a value to enable it. CLI flags override config values.

[profile]
# name = %q            # Profile to operate on

[streak]
# enabled = true          # Grace-day protection on/off
# max-per-week = %d        # Grace days allowed per week
# weekend-pause = false   # Mark weekends as paused (status only)
`,
		defaultProfile,
		grace.DefaultMaxPerWeek,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
