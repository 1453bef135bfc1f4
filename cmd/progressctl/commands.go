package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/config"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/db"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/services"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/standings"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "progressctl",
		Short: "Inspect standings and drive bracket progression from the terminal",
		Long: `progressctl talks to the same database as the API server.

  progressctl template --groups 4 --qualifiers 2 --mode OLYMPIC
  progressctl standings 12 --criteria POINTS,GOAL_DIFF
  progressctl resolve 12`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if off, _ := cmd.Flags().GetBool("no-color"); off {
			color.NoColor = true
		}
	}

	root.AddCommand(templateCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(resolveCmd())
	return root
}

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the elimination template for a group layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, _ := cmd.Flags().GetInt("groups")
			qualifiers, _ := cmd.Flags().GetInt("qualifiers")
			rawMode, _ := cmd.Flags().GetString("mode")

			mode, err := brackets.ParseCrossMode(rawMode)
			if err != nil {
				return err
			}
			entries, err := brackets.GenerateTemplate(groups, qualifiers, mode)
			if err != nil {
				return err
			}
			printTemplate(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().Int("groups", 2, "Number of groups")
	cmd.Flags().Int("qualifiers", 2, "Qualifiers per group")
	cmd.Flags().String("mode", string(models.CrossGeneral), "Cross mode: GENERAL or OLYMPIC")
	return cmd
}

func standingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings <tournament-id>",
		Short: "Print ranked group tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID, err := parseTournamentID(args[0])
			if err != nil {
				return err
			}
			var criteria []standings.Criterion
			if raw, _ := cmd.Flags().GetString("criteria"); strings.TrimSpace(raw) != "" {
				if criteria, err = standings.ParseCriteria(raw); err != nil {
					return err
				}
			}

			app, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			view, err := app.standings.ComputeStandings(cmd.Context(), tournamentID, criteria)
			if err != nil {
				return err
			}
			printStandings(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().String("criteria", "", "Comma separated tie-break chain (default: the tournament's stored chain)")
	return cmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <tournament-id>",
		Short: "Run one progression pass and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID, err := parseTournamentID(args[0])
			if err != nil {
				return err
			}

			app, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			report, err := app.progression.ResolvePending(cmd.Context(), tournamentID)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func parseTournamentID(raw string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid tournament id %q", raw)
	}
	return id, nil
}

type app struct {
	conn        *sql.DB
	redis       *redis.Client
	standings   services.StandingsService
	progression services.ProgressionService
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.conn.Close()
}

// connect wires the services the same way the server does, without the hub or R2.
func connect(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := &app{conn: conn}

	var locker services.TournamentLocker = services.NoopLocker{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.redis = redis.NewClient(opts)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = services.NewRedisTournamentLocker(a.redis, cfg.ResolveLockTTL)
	}

	tournamentRepo := repositories.NewPostgresTournamentRepository(conn)
	matchRepo := repositories.NewPostgresMatchRepository(conn)
	membershipRepo := repositories.NewPostgresGroupMembershipRepository(conn)
	eventRepo := repositories.NewPostgresDisciplinaryEventRepository(conn)
	teamRepo := repositories.NewPostgresTeamRepository(conn)

	a.standings = services.NewStandingsService(tournamentRepo, matchRepo, membershipRepo, eventRepo, teamRepo, logger)
	a.progression = services.NewProgressionService(services.ProgressionDeps{
		TournamentRepo: tournamentRepo,
		MatchRepo:      matchRepo,
		MembershipRepo: membershipRepo,
		EventRepo:      eventRepo,
		Locker:         locker,
		Logger:         logger,
	})
	return a, nil
}

var (
	headerColor = color.New(color.Bold)
	phaseColor  = color.New(color.FgCyan)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	dimColor    = color.New(color.Faint)
)

func printTemplate(w io.Writer, entries []models.BracketTemplateEntry) {
	lastPhase := ""
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		if e.Phase != lastPhase {
			tw.Flush()
			fmt.Fprintf(w, "%s (round %d)\n", phaseColor.Sprint(e.Phase), e.Round)
			lastPhase = e.Phase
		}
		fmt.Fprintf(tw, "  INDEX:%d\t%s\t%s\t%s\n", e.Index, e.RuleA, e.RuleB, dimColor.Sprint(e.Observation))
	}
	tw.Flush()
}

func printStandings(w io.Writer, view *services.StandingsView) {
	fmt.Fprintf(w, "%s %s\n", headerColor.Sprint("Criteria:"), strings.Join(view.Criteria, " > "))
	for _, g := range view.Groups {
		fmt.Fprintf(w, "\n%s\n", phaseColor.Sprintf("Group %s", g.Group))
		printRows(w, g.Rows)
	}
	if len(view.General) > 0 {
		fmt.Fprintf(w, "\n%s\n", phaseColor.Sprint("Overall"))
		printRows(w, view.General)
	}
}

func printRows(w io.Writer, rows []services.StandingRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tTeam\tP\tPts\tW\tD\tL\tGD\tGF\tGA\tY\tR")
	for _, r := range rows {
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Position, r.TeamName, r.Played, r.Points, r.Wins, r.Draws, r.Losses,
			r.GoalDiff, r.GoalsFor, r.GoalsAgainst, r.YellowCards, r.RedCards)
	}
	tw.Flush()
}

func printReport(w io.Writer, report *services.ResolveReport) {
	fmt.Fprintf(w, "%s %s\n", headerColor.Sprint("Run:"), report.RunID)
	fmt.Fprintf(w, "  updated: %s  cleared: %d  unresolved: %d  byes: %d\n",
		okColor.Sprint(report.UpdatedCount), report.ClearedCount, len(report.UnresolvedLog), len(report.ByeLog))
	for _, line := range report.UnresolvedLog {
		fmt.Fprintf(w, "  %s %s\n", warnColor.Sprint("pending"), line)
	}
	for _, line := range report.ByeLog {
		fmt.Fprintf(w, "  %s %s\n", dimColor.Sprint("bye"), line)
	}
	if !report.Progressed() {
		fmt.Fprintln(w, warnColor.Sprint("  no progress yet"))
	}
}
