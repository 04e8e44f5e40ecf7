package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pong/internal/audio"
	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/platform/tui"
	"github.com/vovakirdan/tui-pong/internal/registry"
	"github.com/vovakirdan/tui-pong/internal/relay"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// relayWait bounds how long play waits for an opponent to join the room.
const relayWait = 5 * time.Minute

var (
	flagMode       string
	flagDifficulty string
	flagVariant    string
	flagRelay      string
	flagRoom       string
	flagNoSound    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match",
	Long: `Start a match. Without flags the setup menu lets you pick the variant,
the opponent and the difficulty; the choice is remembered for next time.
Passing --mode, --variant or --difficulty skips the menu.

Controls:
  Up/Down      - Move paddle (W/S for the second player)
  Left         - Chop (A for the second player)
  Right        - Smash (D for the second player)
  P/Esc        - Pause
  R            - Restart
  B            - Back to menu (paused or after the match)
  Q/Ctrl+C     - Quit

Online play:
  Both players run 'pong play --relay <url> --room <name>' with the same
  room name. The first to arrive serves on the left.

Examples:
  pong play
  pong play --mode local
  pong play --variant tabletennis --difficulty hard
  pong play --relay ws://localhost:8080/pong --room FRIDAY`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Opponent: ai, local")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Computer difficulty: easy, medium, hard")
	playCmd.Flags().StringVar(&flagVariant, "variant", "", "Game variant: pong, tabletennis")
	playCmd.Flags().StringVar(&flagRelay, "relay", "", "Relay URL for online play (e.g. ws://host:8080/pong)")
	playCmd.Flags().StringVar(&flagRoom, "room", "", "Relay room shared with your opponent")
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound")
}

func runPlay(cmd *cobra.Command, _ []string) {
	pongCfg, err := config.LoadPong(flagConfig)
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger("pong", io.Discard)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	// Get terminal size early for the first frame
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.DefaultConfig()
	rc.ScreenW = width
	rc.ScreenH = height
	rc.TickRate = flagFPS
	rc.Seed = flagSeed

	// Open preferences storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open preferences database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	player, err := audio.Open(pongCfg.Audio.Enabled && !flagNoSound, pongCfg.Audio.Volume)
	if err != nil {
		logger.Warn("sound disabled", "err", err)
	}
	defer player.Close()

	opts := tui.GameOptions{
		HoldTicks: pongCfg.Controls.HoldTicks,
		Audio:     player,
		Logger:    logger,
	}

	switch {
	case flagRelay != "":
		err = playOnline(pongCfg, rc, opts)
	case cmd.Flags().Changed("mode") || cmd.Flags().Changed("variant") || cmd.Flags().Changed("difficulty"):
		err = playDirect(pongCfg, rc, opts, store)
	default:
		err = tui.RunSession(tui.SessionOptions{
			Config:  pongCfg,
			Runtime: rc,
			Store:   store,
			User:    storage.DefaultUser,
			Audio:   player,
			Logger:  logger,
		})
	}
	if err != nil {
		fail("%v", err)
	}
}

// playDirect starts the match described by the flags, on top of the saved
// preferences, without showing the setup menu.
func playDirect(pongCfg config.PongConfig, rc core.RuntimeConfig, opts tui.GameOptions, store *storage.Store) error {
	prefs := storage.DefaultPreferences(storage.DefaultUser)
	if store != nil {
		if saved, _, err := store.LoadPreferences(storage.DefaultUser); err == nil {
			prefs = saved
		}
	}

	if flagMode != "" {
		mode, err := core.ParseMode(flagMode)
		if err != nil {
			return err
		}
		if mode == core.ModeOnline {
			return fmt.Errorf("online play needs --relay and --room")
		}
		prefs.Mode = mode
	}
	if prefs.Mode == core.ModeOnline {
		prefs.Mode = core.ModeAI
	}
	if flagDifficulty != "" {
		d, err := core.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		prefs.Difficulty = d
	}
	if flagVariant != "" {
		v, err := core.ParseVariant(flagVariant)
		if err != nil {
			return err
		}
		prefs.Variant = v
	}

	rc = prefs.Apply(rc)
	game, err := registry.Create(rc.Variant.GameID(), pongCfg)
	if err != nil {
		return err
	}
	return tui.Run(game, rc, opts)
}

// playOnline waits in a relay room for an opponent, then plays the match
// with the seed and side the relay assigned.
func playOnline(pongCfg config.PongConfig, rc core.RuntimeConfig, opts tui.GameOptions) error {
	if flagRoom == "" {
		return fmt.Errorf("--room is required with --relay")
	}
	if flagVariant != "" {
		v, err := core.ParseVariant(flagVariant)
		if err != nil {
			return err
		}
		rc.Variant = v
	}

	addr, err := relayURL(flagRelay)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, relayWait)
	defer cancel()

	// Players only meet opponents who picked the same variant.
	room := rc.Variant.GameID() + "-" + flagRoom

	fmt.Printf("Waiting for an opponent in room %s (Ctrl+C to give up)...\n", strings.ToUpper(flagRoom))
	client, err := relay.Dial(ctx, addr, room, opts.Logger.With("relay", addr))
	if err != nil {
		return err
	}
	defer client.Close()

	start := client.Start()
	rc.Mode = core.ModeOnline
	rc.LocalPlayer = start.Side
	rc.Seed = start.Seed
	opts.Logger.Info("online match", "room", start.Room, "side", start.Side, "variant", rc.Variant)

	game, err := registry.Create(rc.Variant.GameID(), pongCfg)
	if err != nil {
		return err
	}
	opts.Link = client
	return tui.Run(game, rc, opts)
}

// relayURL fills in the websocket scheme and default path of a relay address.
func relayURL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("relay address %q: %w", addr, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("relay address %q: unsupported scheme %q", addr, u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultRelayPath
	}
	return u.String(), nil
}
