package presenter

import (
	"fmt"
	"strings"

	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/models"
)

// Mention renders a user mention the gateway expands client-side.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func Mentions(userIDs []string) string {
	parts := make([]string, len(userIDs))
	for i, id := range userIDs {
		parts[i] = Mention(id)
	}
	return strings.Join(parts, " ")
}

// PlayersEmbed lists the registered roster with class assignments.
func PlayersEmbed(t *models.Tournament) chat.Embed {
	embed := chat.Embed{
		Title:       "👥 Tournoi 2v2 — Joueurs inscrits",
		Description: "Chaque joueur doit avoir une classe avant le tirage.",
	}

	if len(t.Players) == 0 {
		embed.Fields = append(embed.Fields, chat.EmbedField{Name: "Aucun joueur", Value: "—"})
		return embed
	}

	lines := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		cls := "classe non définie"
		if p.HasClass() {
			cls = *p.Class
		}
		lines = append(lines, fmt.Sprintf("%s — %s", Mention(p.UserID), cls))
	}
	embed.Fields = append(embed.Fields, chat.EmbedField{Name: "Joueurs", Value: strings.Join(lines, "\n")})
	return embed
}

func teamLine(t *models.Team) string {
	p1, p2 := t.Players[0], t.Players[1]
	cls := func(p models.Player) string {
		if p.Class != nil {
			return *p.Class
		}
		return "?"
	}
	return fmt.Sprintf("EQUIPE %d — %s (%s) — %s (%s)",
		t.ID, Mention(p1.UserID), cls(p1), Mention(p2.UserID), cls(p2))
}

// TeamsEmbed lists alive teams first, eliminated ones after, crossed out.
func TeamsEmbed(t *models.Tournament) chat.Embed {
	embed := chat.Embed{
		Title:       "🏆 Tournoi 2v2 — Équipes",
		Description: "Classement en cours",
	}

	var alive, eliminated []string
	for _, team := range t.Teams {
		if team.Eliminated {
			eliminated = append(eliminated, config.EmojiUnavailable+" "+teamLine(team))
		} else {
			alive = append(alive, teamLine(team))
		}
	}

	value := "—"
	if len(alive)+len(eliminated) > 0 {
		value = strings.Join(append(alive, eliminated...), "\n")
	}
	embed.Fields = append(embed.Fields, chat.EmbedField{Name: "Équipes", Value: value})
	return embed
}

// UpcomingEmbed lists every non-terminal match with its schedule.
func UpcomingEmbed(t *models.Tournament) chat.Embed {
	embed := chat.Embed{Title: "📅 Tournoi 2v2 — Matchs à venir"}

	var lines []string
	for _, m := range t.Matches {
		if m.IsTerminal() {
			continue
		}
		lines = append(lines, fmt.Sprintf("EQUIPE %d vs EQUIPE %d — %s %s",
			m.Team1ID, m.Team2ID, m.Date, m.Time))
	}
	if len(lines) == 0 {
		embed.Fields = append(embed.Fields, chat.EmbedField{Name: "Aucun match", Value: "—"})
		return embed
	}
	embed.Fields = append(embed.Fields, chat.EmbedField{Name: "Matchs", Value: strings.Join(lines, "\n")})
	return embed
}

// HistoryEmbed lists finished matches with winner and round.
func HistoryEmbed(t *models.Tournament) chat.Embed {
	embed := chat.Embed{Title: "📜 Tournoi 2v2 — Historique"}

	var lines []string
	for _, m := range t.Matches {
		if !m.IsTerminal() || m.WinnerTeamID == nil {
			continue
		}
		loser := m.Team1ID
		if loser == *m.WinnerTeamID {
			loser = m.Team2ID
		}
		lines = append(lines, fmt.Sprintf("Round %d — %s EQUIPE %d bat EQUIPE %d",
			m.Round, config.EmojiVictory, *m.WinnerTeamID, loser))
	}
	if len(lines) == 0 {
		return embed
	}
	embed.Fields = append(embed.Fields, chat.EmbedField{Name: "Résultats", Value: strings.Join(lines, "\n")})
	return embed
}

func statusLabel(s models.MatchStatus) string {
	switch s {
	case models.MatchStatusWaitingAvail:
		return config.EmojiThumbs + " En attente des disponibilités"
	case models.MatchStatusNeedValidate:
		return "🔔 En attente de validation orga"
	case models.MatchStatusValidated:
		return config.EmojiValidate + " Validé"
	case models.MatchStatusDone:
		return config.EmojiVictory + " Terminé"
	}
	return string(s)
}

// MatchEmbed renders the per-match card body.
func MatchEmbed(t *models.Tournament, m *models.Match) chat.Embed {
	embed := chat.Embed{
		Title: fmt.Sprintf("⚔️ EQUIPE %d vs EQUIPE %d — Round %d", m.Team1ID, m.Team2ID, m.Round),
	}

	if t1 := t.FindTeam(m.Team1ID); t1 != nil {
		embed.Fields = append(embed.Fields, chat.EmbedField{
			Name: fmt.Sprintf("EQUIPE %d", t1.ID), Value: teamLine(t1),
		})
	}
	if t2 := t.FindTeam(m.Team2ID); t2 != nil {
		embed.Fields = append(embed.Fields, chat.EmbedField{
			Name: fmt.Sprintf("EQUIPE %d", t2.ID), Value: teamLine(t2),
		})
	}

	embed.Fields = append(embed.Fields,
		chat.EmbedField{Name: "📅 Horaire", Value: fmt.Sprintf("%s à %s", m.Date, m.Time)},
		chat.EmbedField{Name: "Statut", Value: statusLabel(m.Status)},
		chat.EmbedField{
			Name:  config.EmojiThumbs + " Confirmations",
			Value: fmt.Sprintf("%d/4", len(m.Thumbs)),
		},
	)

	if m.MapName != nil {
		embed.Fields = append(embed.Fields, chat.EmbedField{Name: "🗺️ Map", Value: *m.MapName})
		if m.MapImage != nil {
			embed.Image = *m.MapImage
		}
	}
	if m.WinnerTeamID != nil {
		embed.Fields = append(embed.Fields, chat.EmbedField{
			Name:  config.EmojiVictory + " Vainqueur",
			Value: fmt.Sprintf("EQUIPE %d", *m.WinnerTeamID),
		})
	}
	return embed
}

// BuildMatchCard pairs the match embed with its action controls.
func BuildMatchCard(t *models.Tournament, m *models.Match) chat.MatchCard {
	card := chat.MatchCard{
		MatchID: m.ID,
		Embed:   MatchEmbed(t, m),
	}
	if !m.IsTerminal() {
		card.Actions = []chat.ActionKind{
			chat.ActionConfirmAvailable,
			chat.ActionDeclareUnavail,
			chat.ActionValidate,
			chat.ActionForfeit,
		}
	}
	return card
}
