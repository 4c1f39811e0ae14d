package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sportsin/insport-client/internal/config"
	"github.com/sportsin/insport-client/internal/database"
	"github.com/sportsin/insport-client/internal/history"
	"github.com/sportsin/insport-client/internal/identity"
	"github.com/sportsin/insport-client/internal/lobby"
	"github.com/sportsin/insport-client/internal/matchmaker"
	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/session"
	"github.com/sportsin/insport-client/internal/sportsin"
)

var (
	playArena    string
	playSport    string
	noAutoStart  bool
	historyLimit int
)

func init() {
	playCmd.Flags().StringVar(&playArena, "arena", "", "The arena (point) id to play at")
	playCmd.Flags().StringVar(&playSport, "sport", "", "The sport code, e.g. FOOT")
	playCmd.Flags().BoolVar(&noAutoStart, "no-auto-start", false, "Do not start the game automatically once matched")
	_ = playCmd.MarkFlagRequired("arena")
	_ = playCmd.MarkFlagRequired("sport")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records to show")

	teamCmd.AddCommand(teamUseCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(arenasCmd)
	rootCmd.AddCommand(sportsCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(profileCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Find an opponent at an arena and play a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := profileStore().Load()
		if err != nil && !errors.Is(err, identity.ErrNoProfile) {
			return err
		}
		team := profile.Team()
		if team == nil {
			return errors.New("no team selected, run 'insport team use <id>' first")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := newAPIClient()
		metricsSvc := metrics.NewService()

		res, err := matchmaker.NewService(client, metricsSvc).Initiate(ctx, team, playArena, playSport)
		if err != nil {
			return err
		}
		if res.Joined {
			fmt.Printf("⚔️  Adversaire trouvé: %s\n", teamName(res.Game.CreatorTeam))
		} else {
			fmt.Println("🔍 Recherche d'un adversaire... (Ctrl-C pour annuler)")
		}

		lobbyCfg := lobby.DefaultConfig()
		lobbyCfg.AutoStart = !noAutoStart
		sync := lobby.NewSynchronizer(client, metricsSvc, lobbyCfg, team.ID, res.Game)
		sync.OnUpdate = func(st lobby.Status) {
			if st.Game.State == sportsin.GameStateWaiting {
				fmt.Printf("\r⏳ En attente... %s", session.FormatElapsed(st.Elapsed))
			}
		}

		handoff, err := sync.Run(ctx)
		if err != nil {
			// An interrupted search is torn down, not left behind.
			if errors.Is(err, context.Canceled) && sync.IsCreator() && sync.Game().State == sportsin.GameStateWaiting {
				if cancelErr := sync.Cancel(context.Background()); cancelErr != nil {
					log.Error("Failed to cancel search", "error", cancelErr)
				} else {
					fmt.Println("\nRecherche annulée.")
					return nil
				}
			}
			return err
		}

		switch handoff.Phase {
		case lobby.PhaseCancelled:
			fmt.Println("\nRecherche annulée.")
			return nil
		case lobby.PhaseResult:
			return showResult(ctx, client, handoff.Game.SessionID)
		case lobby.PhaseActive:
			return runActiveSession(ctx, client, metricsSvc, handoff.Game)
		default:
			return fmt.Errorf("unexpected lobby phase %q", handoff.Phase)
		}
	},
}

func runActiveSession(ctx context.Context, client *sportsin.APIClient, metricsSvc metrics.Metrics, game sportsin.Game) error {
	ctrl := session.NewController(client, client, metricsSvc, session.DefaultConfig())
	if err := ctrl.Load(ctx, game.ID); err != nil {
		return err
	}

	fmt.Printf("\n🏁 Match lancé: %s vs %s\n", teamName(game.CreatorTeam), teamName(game.OpponentTeam))
	fmt.Println("Entrez le score final (ex: '3 1') pour terminer le match.")

	viewCtx, stopView := context.WithCancel(ctx)
	defer stopView()

	go ctrl.RunClock(viewCtx, func(elapsed string) {
		fmt.Printf("\r⏱  %s > ", elapsed)
	})

	completed := make(chan string, 1)
	watchFailed := make(chan error, 1)
	go func() {
		sessionID, err := ctrl.WatchCompletion(viewCtx)
		if err != nil {
			watchFailed <- err
			return
		}
		completed <- sessionID
	}()

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-viewCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sessionID := <-completed:
			stopView()
			fmt.Println("\nL'adversaire a terminé le match.")
			return showResult(ctx, client, sessionID)

		case err := <-watchFailed:
			if errors.Is(err, context.Canceled) {
				continue
			}
			return err

		case line := <-lines:
			scoreA, scoreB, err := parseScores(line)
			if err != nil {
				fmt.Printf("\n%s\n", err)
				continue
			}
			result, err := ctrl.SubmitScore(ctx, scoreA, scoreB)
			if err != nil {
				// The form stays open for a retry.
				fmt.Printf("\nEnvoi du score impossible: %s\n", err)
				continue
			}
			stopView()
			fmt.Println()
			printResult(result)
			return nil
		}
	}
}

func parseScores(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errors.New("entrez deux scores, ex: '3 1'")
	}
	scoreA, errA := strconv.Atoi(fields[0])
	scoreB, errB := strconv.Atoi(fields[1])
	if errA != nil || errB != nil || scoreA < 0 || scoreB < 0 {
		return 0, 0, errors.New("les scores doivent être des entiers positifs")
	}
	return scoreA, scoreB, nil
}

func showResult(ctx context.Context, client *sportsin.APIClient, sessionID string) error {
	s, err := client.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	printResult(s)
	return nil
}

func printResult(s sportsin.Session) {
	fmt.Println("=== Résultat ===")
	if s.Result != nil {
		for _, m := range s.Result.Metrics {
			if m.MetricType != sportsin.MetricTypeGoals {
				continue
			}
			fmt.Printf("  %s: %.0f\n", participantName(s, m.ParticipantID), m.Value)
		}
	}
	if s.WinnerParticipantID != "" {
		fmt.Printf("🏆 Vainqueur: %s\n", participantName(s, s.WinnerParticipantID))
	} else {
		fmt.Println("Match nul ou pas de vainqueur")
	}
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <gameID>",
	Short: "Cancel a waiting game you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		ctx := cmd.Context()

		game, err := client.GetGame(ctx, args[0])
		if err != nil {
			return err
		}
		if game.State != sportsin.GameStateWaiting {
			return fmt.Errorf("game %s is %s, only waiting games can be cancelled", game.ID, game.State)
		}
		if err := client.DeleteGame(ctx, game.ID); err != nil {
			return err
		}
		fmt.Println("Recherche annulée.")
		return nil
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <sessionID>",
	Short: "Show the result of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showResult(cmd.Context(), newAPIClient(), args[0])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show locally recorded session results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
		if err != nil {
			return err
		}
		defer teardown()

		records, err := history.NewStore(db).List(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("Aucun match enregistré.")
			return nil
		}
		for _, rec := range records {
			winner := "match nul"
			for _, p := range rec.Participants {
				if p.ID == rec.WinnerParticipantID {
					winner = "🏆 " + p.Name
				}
			}
			fmt.Printf("%s  %-12s %s\n", time.Unix(rec.EndedAt, 0).Format("2006-01-02 15:04"), rec.Sport, winner)
		}
		return nil
	},
}

var arenasCmd = &cobra.Command{
	Use:   "arenas",
	Short: "List the arenas known to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		arenas, err := newAPIClient().ListArenas(cmd.Context())
		if err != nil {
			return err
		}
		for _, a := range arenas {
			fmt.Printf("%-8s %-30s %s\n", a.ID, a.Name, strings.Join(a.SportsAvailable, ", "))
		}
		return nil
	},
}

var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "List the sports known to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		sports, err := newAPIClient().ListSports(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range sports {
			fmt.Printf("%-15s %s\n", s.Code, s.Name)
		}
		return nil
	},
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage the team this client plays as",
}

var teamUseCmd = &cobra.Command{
	Use:   "use <teamID>",
	Short: "Select the team to play as",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid team id %q", args[0])
		}

		team, err := newAPIClient().GetTeam(cmd.Context(), teamID)
		if err != nil {
			return err
		}

		profile, err := profileStore().SetTeam(team)
		if err != nil {
			return err
		}
		fmt.Printf("Équipe sélectionnée: %s (#%d)\n", profile.TeamName, profile.TeamID)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the local profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := profileStore().Load()
		if errors.Is(err, identity.ErrNoProfile) {
			fmt.Println("Aucun profil. Sélectionnez une équipe avec 'insport team use <id>'.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Client:  %s\n", profile.ClientID)
		if profile.HasTeam() {
			fmt.Printf("Équipe:  %s (#%d)\n", profile.TeamName, profile.TeamID)
		} else {
			fmt.Println("Équipe:  aucune")
		}
		return nil
	},
}

func teamName(team *sportsin.TeamRef) string {
	if team == nil {
		return "?"
	}
	return team.Name
}

func participantName(s sportsin.Session, id string) string {
	for _, p := range s.Participants {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
