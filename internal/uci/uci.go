// Package uci implements a minimal Universal Chess Interface front end
// over internal/engine: uci/isready/ucinewgame/setoption/position/go/
// stop/quit, per spec.md §6.
//
// Grounded on hailam-chessplay/internal/uci/uci.go's command dispatch and
// "go"-option parsing, trimmed of its Syzygy-tablebase options and CPU
// profiling commands (spec.md Non-goals) and its two-file NNUE loading
// (this repository's Network is single-file, see DESIGN.md).
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kestrelchess/kestrel/internal/board"
	"github.com/kestrelchess/kestrel/internal/engine"
	"github.com/kestrelchess/kestrel/internal/search"
)

// Name and Author identify this engine in the "uci" response.
const (
	Name   = "Kestrel"
	Author = "Kestrel"
)

// UCI dispatches UCI protocol lines against an engine.Engine.
type UCI struct {
	eng      *engine.Engine
	position *board.Position

	positionHashes []uint64

	nnuePath string

	out io.Writer
	dbg io.Writer

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a UCI handler wrapping eng, writing protocol responses to
// out and "info string" diagnostics to dbg.
func New(eng *engine.Engine, out, dbg io.Writer) *UCI {
	pos, _ := board.ParseFEN(board.StartFEN)
	return &UCI{eng: eng, position: pos, out: out, dbg: dbg}
}

// Run reads UCI commands from r until "quit" or EOF.
func (u *UCI) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Fprintln(u.out, u.position.String())
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Fprintf(u.out, "id name %s\n", Name)
	fmt.Fprintf(u.out, "id author %s\n", Author)
	fmt.Fprintln(u.out, "option name Hash type spin default 16 min 1 max 64000")
	fmt.Fprintln(u.out, "option name Threads type spin default 1 min 1 max 4096")
	fmt.Fprintln(u.out, "option name UseNNUE type check default false")
	fmt.Fprintln(u.out, "option name EvalFile type string default <empty>")
	fmt.Fprintln(u.out, "uciok")
}

func (u *UCI) handleNewGame() {
	u.eng.Clear()
	u.position, _ = board.ParseFEN(board.StartFEN)
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses "position [startpos|fen <fen>] [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int
	switch args[0] {
	case "startpos":
		u.position, _ = board.ParseFEN(board.StartFEN)
		moveStart = 1
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:end], " "))
		if err != nil {
			fmt.Fprintf(u.dbg, "info string invalid fen: %v\n", err)
			return
		}
		u.position = pos
		moveStart = end
	default:
		return
	}

	for i := moveStart; i < len(args); i++ {
		if args[i] == "moves" {
			continue
		}
		m := u.parseMove(args[i])
		if m == board.NoMove {
			fmt.Fprintf(u.dbg, "info string invalid move: %s\n", args[i])
			return
		}
		u.position.MakeMove(m)
	}

	u.positionHashes = []uint64{u.position.Hash}
}

func (u *UCI) parseMove(s string) board.Move {
	if len(s) < 4 {
		return board.NoMove
	}
	from := board.NewSquare(int(s[0]-'a'), int(s[1]-'1'))
	to := board.NewSquare(int(s[2]-'a'), int(s[3]-'1'))

	var promo board.PieceType
	hasPromo := len(s) == 5
	if hasPromo {
		switch s[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	legal := u.position.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if hasPromo {
			if m.IsPromotion() && m.Promotion() == promo {
				return m
			}
			continue
		}
		if !m.IsPromotion() {
			return m
		}
	}
	return board.NoMove
}

// goOptions is the parsed form of "go"'s arguments.
type goOptions struct {
	depth     int
	nodes     uint64
	moveTime  time.Duration
	infinite  bool
	wtime     time.Duration
	btime     time.Duration
	winc      time.Duration
	binc      time.Duration
	movesToGo int
}

func parseGoOptions(args []string) goOptions {
	var o goOptions
	durationArg := func(i int) time.Duration {
		ms, _ := strconv.Atoi(args[i])
		return time.Duration(ms) * time.Millisecond
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				o.depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				o.nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				o.moveTime = durationArg(i + 1)
				i++
			}
		case "infinite":
			o.infinite = true
		case "wtime":
			if i+1 < len(args) {
				o.wtime = durationArg(i + 1)
				i++
			}
		case "btime":
			if i+1 < len(args) {
				o.btime = durationArg(i + 1)
				i++
			}
		case "winc":
			if i+1 < len(args) {
				o.winc = durationArg(i + 1)
				i++
			}
		case "binc":
			if i+1 < len(args) {
				o.binc = durationArg(i + 1)
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				o.movesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}
	return o
}

func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)
	u.eng.SetPositionHistory(u.positionHashes)
	u.eng.OnInfo = func(r search.Result) { u.sendInfo(r) }

	ctx, cancel := context.WithCancel(context.Background())
	if !opts.infinite {
		tm := NewTimeManager()
		tm.Init(opts, u.position.SideToMove)
		if tm.MaximumTime() < time.Hour {
			var timeoutCancel context.CancelFunc
			ctx, timeoutCancel = context.WithTimeout(ctx, tm.OptimumTime())
			prevCancel := cancel
			cancel = func() { timeoutCancel(); prevCancel() }
		}
	}
	u.cancel = cancel
	u.done = make(chan struct{})

	maxDepth := opts.depth
	pos := u.position.Copy()

	go func() {
		defer close(u.done)
		move := u.eng.BestMove(ctx, pos, maxDepth)
		if move == board.NoMove {
			legal := pos.GenerateLegalMoves()
			if legal.Len() > 0 {
				move = legal.Get(0)
			}
		}
		if move == board.NoMove {
			fmt.Fprintln(u.out, "bestmove 0000")
			return
		}
		fmt.Fprintf(u.out, "bestmove %s\n", move.String())
	}()
}

func (u *UCI) sendInfo(r search.Result) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d seldepth %d", r.Depth, r.SelDepth))

	switch {
	case r.Score.IsMateIn():
		// UCI's "mate N" counts full moves, not plies.
		parts = append(parts, fmt.Sprintf("score mate %d", (r.Score.MatePlies()+1)/2))
	case r.Score.IsMatedIn():
		parts = append(parts, fmt.Sprintf("score mate -%d", (r.Score.MatePlies()+1)/2))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", r.Score.Centipawns()))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", r.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", r.Elapsed.Milliseconds()))
	if r.Elapsed > 0 {
		nps := uint64(float64(r.Nodes) / r.Elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, fmt.Sprintf("hashfull %d", u.eng.HashFull()))

	if len(r.PV) > 0 {
		strs := make([]string, len(r.PV))
		for i, m := range r.PV {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}

	fmt.Fprintf(u.out, "info %s\n", strings.Join(parts, " "))
	fmt.Fprintf(u.dbg, "info string searched %s nodes, hash %s full\n",
		humanize.Comma(int64(r.Nodes)), humanize.Comma(int64(u.eng.HashFull())))
}

func (u *UCI) handleStop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	if u.done != nil {
		<-u.done
	}
	u.cancel = nil
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	var readingName, readingValue bool
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			switch {
			case readingName:
				name = strings.TrimSpace(name + " " + a)
			case readingValue:
				value = strings.TrimSpace(value + " " + a)
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil {
			if err := u.eng.SetHashSize(mb); err != nil {
				fmt.Fprintf(u.dbg, "info string %v\n", err)
			}
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil {
			u.eng.SetThreads(n)
		}
	case "usennue":
		u.eng.SetUseNNUE(strings.EqualFold(value, "true"))
	case "evalfile":
		u.nnuePath = value
		if err := u.eng.LoadNNUE(u.nnuePath); err != nil {
			fmt.Fprintf(u.dbg, "info string %v\n", err)
		}
	}
}
