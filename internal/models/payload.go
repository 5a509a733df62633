// internal/models/payload.go
package models

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ConversationMessage `json:"messages"`
}

// ResponsePayload is returned by POST /api/chat. Image is always emitted and
// is null while the conversation is still probing.
type ResponsePayload struct {
	Reply           string   `json:"reply"`
	ShowCard        bool     `json:"showCard"`
	Image           *string  `json:"image"`
	CardName        string   `json:"cardName,omitempty"`
	CardKeywords    []string `json:"cardKeywords,omitempty"`
	CardDescription string   `json:"cardDescription,omitempty"`
	CardAnalysis    string   `json:"cardAnalysis,omitempty"`
	CardAdvice      string   `json:"cardAdvice,omitempty"`
	Teaser          string   `json:"teaser,omitempty"`
	LuckyItem       string   `json:"luckyItem,omitempty"`
	CoupangLink     *string  `json:"coupangLink,omitempty"`
}

// ApologyPayload is written when the request handler itself fails.
func ApologyPayload() ResponsePayload {
	return ResponsePayload{Reply: ApologyReply}
}

const ApologyReply = "언니가 잠깐 딴생각했네. 다시 말해줄래?"

// LinkRequest is the body of POST /api/coupang.
type LinkRequest struct {
	Keyword string `json:"keyword"`
}

// LinkPayload is returned by POST /api/coupang; Link is never empty.
type LinkPayload struct {
	Link string `json:"link"`
}
