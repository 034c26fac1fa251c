package domain

// QuestionType discriminates how a question is presented and answered.
type QuestionType string

const (
	// QuestionNormal is a plain buzzer question.
	QuestionNormal QuestionType = "normal"
	// QuestionEnum is an enumerated-list question whose items are revealed one by one.
	QuestionEnum QuestionType = "enum"
	// QuestionImg is an image question.
	QuestionImg QuestionType = "img"
	// QuestionEstimate is a numeric-estimate question answered via text input.
	QuestionEstimate QuestionType = "estimate"
)

// DoublePointsValue is the sentinel point value that, when present anywhere on
// the board, switches the whole match into double-points mode.
const DoublePointsValue = 1337

// NoChoice is the empty default for a participant's multiple-choice input.
const NoChoice = -1

// Question is immutable board content except for the Answered flag, which only
// ever flips false -> true.
type Question struct {
	Value    int          `json:"value"`
	Prompt   string       `json:"question"`
	Answer   string       `json:"answer"`
	Answered bool         `json:"answered"`
	Type     QuestionType `json:"type"`
}

// Category groups an ordered sequence of questions under a unique name.
type Category struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// ActiveQuestion is a copy of the opened question plus its board position.
type ActiveQuestion struct {
	Question
	CategoryName string `json:"category"`
	Index        int    `json:"index"`
}

// Participant is a player or moderator with an identity that outlives a single
// websocket connection. TextInput and Choice are ephemeral per-question inputs.
type Participant struct {
	ID           string `json:"id"`
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	TeamID       *int   `json:"teamId,omitempty"`
	TextInput    string `json:"textInput"`
	Choice       int    `json:"choice"`
}

// GameState is the full-state snapshot broadcast to every connection after each
// accepted action, and the shape persisted by the snapshot stores.
type GameState struct {
	Players          []Participant   `json:"players"`
	Categories       []Category      `json:"categories"`
	ActiveQuestion   *ActiveQuestion `json:"activeQuestion"`
	BuzzedPlayer     *Participant    `json:"buzzedPlayer"`
	PlayersTurn      *Participant    `json:"playersTurn"`
	ExposeQuestion   bool            `json:"exposeQuestion"`
	ExposeAnswer     bool            `json:"exposeAnswer"`
	ShowBoard        bool            `json:"showBoard"`
	EnumRevealAmount int             `json:"enumRevealAmount"`
	LockTextInput    bool            `json:"lockTextInput"`
	RevealTextInput  bool            `json:"revealTextInput"`
	LockChoice       bool            `json:"lockChoice"`
	RevealChoice     bool            `json:"revealChoice"`
}

// Board is the persisted shape of the question set; data/questions.json and the
// boards table both store this envelope.
type Board struct {
	Categories []Category `json:"categories"`
}
