package entity

type Screen string

const (
	ScreenMenu  Screen = "menu"
	ScreenSetup Screen = "setup"
	ScreenGame  Screen = "game"
)

type Mode string

const (
	ModeAI          Mode = "ai"
	ModeMultiplayer Mode = "multiplayer"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Result is the terminal status of a round; ResultPlaying is the only non-terminal value.
type Result string

const (
	ResultPlaying Result = "playing"
	ResultWinX    Result = "win-x"
	ResultWinO    Result = "win-o"
	ResultDraw    Result = "draw"
)

type Scores struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Total - number of rounds that reached a result.
func (that Scores) Total() int {
	return that.X + that.O + that.Draws
}

// GameState is the single source of truth of a session. Values are only
// produced by the reducer; a held value is never modified afterwards.
type GameState struct {
	Screen      Screen     `json:"screen"`
	Mode        Mode       `json:"mode"`
	Difficulty  Difficulty `json:"difficulty"`
	HumanSymbol Mark       `json:"human_symbol"`

	Board         Board  `json:"board"`
	CurrentPlayer Mark   `json:"current_player"`
	Result        Result `json:"result"`
	WinningLine   *Line  `json:"winning_line"`

	IsAITurn bool `json:"is_ai_turn"`
	// AITimerID is an opaque handle owned by the scheduler, 0 when none is recorded.
	AITimerID uint64 `json:"ai_timer_id,omitempty"`

	Scores      Scores `json:"scores"`
	RoundNumber int    `json:"round_number"`
}

func InitialState() GameState {
	return GameState{
		Screen:        ScreenMenu,
		Mode:          ModeAI,
		Difficulty:    DifficultyMedium,
		HumanSymbol:   PlayerX,
		Board:         NewBoard(),
		CurrentPlayer: PlayerX,
		Result:        ResultPlaying,
	}
}

// AISymbol - the symbol the AI plays in ai mode.
func (that GameState) AISymbol() Mark {
	return NextPlayer(that.HumanSymbol)
}

func (that GameState) IsOver() bool {
	return that.Result != ResultPlaying
}

// AwaitsAI reports whether the scheduler should have an AI move pending.
func (that GameState) AwaitsAI() bool {
	return that.IsAITurn && that.Result == ResultPlaying
}

// Status - one line describing the round for text front ends.
func (that GameState) Status() string {
	switch that.Result {
	case ResultWinX:
		return "X wins"
	case ResultWinO:
		return "O wins"
	case ResultDraw:
		return "draw"
	case ResultPlaying:
	}

	if that.IsAITurn {
		return string(that.CurrentPlayer) + " to move (AI thinking)"
	}

	return string(that.CurrentPlayer) + " to move"
}
