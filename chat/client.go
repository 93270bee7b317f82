// Package chat defines the contract with the chat platform. The core never
// talks to the platform directly: it calls Client, and the co-deployed
// gateway process executes the calls against the real platform. References
// returned here are minted locally and stay stable; the gateway owns the
// mapping from these references to platform message/channel ids.
package chat

import "context"

// Embed is a platform-agnostic rendered card or summary. It is pure data;
// layout is the gateway's concern.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       string       `json:"image,omitempty"`
}

type EmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ActionKind identifies a control attached to a match card. The gateway
// turns interactions with these controls back into command API calls.
type ActionKind string

const (
	ActionConfirmAvailable  ActionKind = "confirm_available"
	ActionDeclareUnavail    ActionKind = "declare_unavailable"
	ActionValidate          ActionKind = "validate"
	ActionForfeit           ActionKind = "forfeit"
	ActionSelectWinnerTeam  ActionKind = "select_winner_team"
	ActionSelectForfeitTeam ActionKind = "select_forfeit_team"
)

// MatchCard is the per-match status view with its action controls.
type MatchCard struct {
	MatchID int          `json:"match_id"`
	Embed   Embed        `json:"embed"`
	Actions []ActionKind `json:"actions"`
}

// ChannelRequest asks for an isolated match channel visible only to the
// four competitors, the organizers and the admin role.
type ChannelRequest struct {
	Name        string   `json:"name"`
	CategoryID  string   `json:"category_id,omitempty"`
	MemberIDs   []string `json:"member_ids"`
	OrgaIDs     []string `json:"orga_ids"`
	AdminRoleID string   `json:"admin_role_id,omitempty"`
}

// Client is the outbound chat surface. All calls are blocking I/O and may
// fail; callers must have committed state before invoking them and must
// treat failures as best-effort (log, never roll back).
type Client interface {
	SendEmbed(ctx context.Context, channelID string, embed Embed) (messageID string, err error)
	EditEmbed(ctx context.Context, channelID, messageID string, embed Embed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	SendMatchCard(ctx context.Context, channelID string, card MatchCard) (messageID string, err error)
	EditMatchCard(ctx context.Context, channelID, messageID string, card MatchCard) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	CreateMatchChannel(ctx context.Context, req ChannelRequest) (channelID string, err error)
	SendNotice(ctx context.Context, channelID, text string) error
}
