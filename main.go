package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"connect4/config"
	"connect4/display"
	"connect4/engine"
	"connect4/experiments"
	"connect4/game"
	"connect4/player"
	"connect4/searcher"
	"connect4/searcher/agent"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath  string
		mode        string
		humanFirst  bool
		iterations  int
		exploration float64
		tieBreak    string
		rows        int
		columns     int
		win         int
		seed        uint64
		games       int
		output      string
		experiment  string
		verbose     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&mode, "mode", config.ModePlay, "Run mode (play, pvp, selfplay, experiment, throughput)")
	flag.BoolVar(&humanFirst, "human-first", true, "Human moves first in play mode")
	flag.IntVar(&iterations, "iterations", 0, "MCTS iterations per move")
	flag.Float64Var(&exploration, "c", 0, "UCB1 exploration constant")
	flag.StringVar(&tieBreak, "tie-break", "", "Tie break between equally visited moves (first, win-rate)")
	flag.IntVar(&rows, "rows", 0, "Board rows")
	flag.IntVar(&columns, "cols", 0, "Board columns")
	flag.IntVar(&win, "win", 0, "Tokens in a row needed to win")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 = use current time)")
	flag.IntVar(&games, "games", 0, "Games per experiment matchup")
	flag.StringVar(&output, "out", "", "Directory for experiment records")
	flag.StringVar(&experiment, "experiment", "", "Experiment preset (exploration, iterations) or custom")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging")
	flag.Parse()

	setupLogging(verbose)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Flags given on the command line override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = mode
		case "human-first":
			cfg.HumanFirst = humanFirst
		case "iterations":
			cfg.Search.Iterations = iterations
		case "c":
			cfg.Search.Exploration = exploration
		case "tie-break":
			cfg.Search.TieBreak = tieBreak
		case "rows":
			cfg.Board.Rows = rows
		case "cols":
			cfg.Board.Columns = columns
		case "win":
			cfg.Board.WinningLength = win
		case "seed":
			cfg.Search.Seed = seed
		case "games":
			cfg.Experiment.Games = games
		case "out":
			cfg.Experiment.Output = output
		case "experiment":
			cfg.Experiment.Name = experiment
		case "v":
			cfg.Search.Verbose = verbose
		}
	})
	if cfg.Search.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	profile := termenv.Ascii
	if isatty.IsTerminal(os.Stdout.Fd()) {
		profile = termenv.ANSI
	}
	out := colorable.NewColorableStdout()

	if err := run(cfg, os.Stdin, out, display.NewRenderer(out, profile)); err != nil {
		log.Fatal().Err(err).Str("mode", cfg.Mode).Msg("run failed")
	}
}

func setupLogging(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     colorable.NewColorableStderr(),
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})
}

func run(cfg config.Config, in io.Reader, out io.Writer, renderer *display.Renderer) error {
	switch cfg.Mode {
	case config.ModeExperiment:
		return runExperiment(cfg)
	case config.ModeThroughput:
		return runThroughput(cfg)
	}

	state, err := cfg.NewState()
	if err != nil {
		return err
	}

	var agentA, agentB agent.Agent
	switch cfg.Mode {
	case config.ModePvP:
		human := player.NewHuman(in, out)
		agentA, agentB = human, human
	case config.ModeSelfPlay:
		mcts, err := cfg.NewMCTS(searcher.WithMetrics())
		if err != nil {
			return err
		}
		agentA, agentB = agent.NewEvaluationAgent(mcts), agent.NewEvaluationAgent(mcts)
	default:
		mcts, err := cfg.NewMCTS(searcher.WithMetrics())
		if err != nil {
			return err
		}
		computer := agent.NewEvaluationAgent(mcts)
		if cfg.Search.Verbose {
			computer = agent.NewReportingAgent(mcts, func(result searcher.Result) {
				fmt.Fprintln(out, renderer.Diagnostics(result))
			})
		}
		human := agent.Agent(player.NewHuman(in, out))
		agentA, agentB = human, computer
		if !cfg.HumanFirst {
			agentA, agentB = computer, human
		}
	}

	fmt.Fprintln(out, renderer.Board(state))
	e, err := engine.NewLocalEngine(state, agentA, agentB,
		engine.WithObserver(func(step int, p game.Player, move int, s *game.State) {
			fmt.Fprintf(out, "Move %d: player %s plays column %d\n", step, s.Token(p), move)
			fmt.Fprintln(out, renderer.Board(s))
		}))
	if err != nil {
		return err
	}

	outcome, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderer.Outcome(state))

	searched := 0
	for _, mm := range moveMetrics {
		searched += mm.Playouts
	}
	log.Info().
		Str("outcome", outcome.String()).
		Int("moves", gameMetric.TotalMoves).
		Int("playouts", searched).
		Dur("duration", gameMetric.Duration).
		Msg("game finished")
	return nil
}

func experimentFor(cfg config.Config) (experiments.Experiment, error) {
	var e experiments.Experiment
	switch cfg.Experiment.Name {
	case "exploration":
		e = experiments.Exploration(cfg.Search.Iterations)
	case "iterations":
		e = experiments.Iterations()
	default:
		if len(cfg.Experiment.Agents) == 0 {
			return e, fmt.Errorf("%w: experiment %q defines no agents", game.ErrConfiguration, cfg.Experiment.Name)
		}
		e = experiments.Experiment{
			Name:     cfg.Experiment.Name,
			Agents:   cfg.Experiment.Agents,
			MatchUps: cfg.Experiment.MatchUps,
		}
	}

	board, err := cfg.NewState()
	if err != nil {
		return e, err
	}
	e.Games = cfg.Experiment.Games
	e.Board = board
	e.Seed = cfg.Search.Seed
	e.OutputDir = cfg.Experiment.Output
	return e, nil
}

func runExperiment(cfg config.Config) error {
	e, err := experimentFor(cfg)
	if err != nil {
		return err
	}
	summary, err := experiments.Run(e)
	if err != nil {
		return err
	}
	log.Info().Str("runID", summary.RunID).Int("games", len(summary.GameRecords)).Msg("experiment stored")
	return nil
}

func runThroughput(cfg config.Config) error {
	e, err := experimentFor(cfg)
	if err != nil {
		return err
	}
	_, err = experiments.Throughput(e, cfg.Experiment.Games)
	return err
}
