package board

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"buzzboard/internal/models"
)

// Mutations validate their input, apply one semantic change to a copy of the
// mirrored team list, and write the whole document back. A mutation naming a
// team that no longer exists still rewrites the (unchanged) document: the
// base state is the mirror, and the store holds whole documents only.

// AddMember appends a player to the named team's member list. Duplicate
// names are not rejected; the model does not enforce uniqueness.
func (s *Service) AddMember(ctx context.Context, teamName, playerName string) error {
	if err := requireName("player name", playerName); err != nil {
		return err
	}
	if err := requireName("team name", teamName); err != nil {
		return err
	}
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			if teams[i].Name == teamName {
				teams[i].Members = append(teams[i].Members, playerName)
			}
		}
	})
}

// RemoveMember filters a player out of the named team's member list. Removing
// an absent member is a content no-op but still rewrites the document.
func (s *Service) RemoveMember(ctx context.Context, teamName, memberName string) error {
	if err := requireName("member name", memberName); err != nil {
		return err
	}
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			if teams[i].Name != teamName {
				continue
			}
			kept := teams[i].Members[:0]
			for _, m := range teams[i].Members {
				if m != memberName {
					kept = append(kept, m)
				}
			}
			teams[i].Members = kept
		}
	})
}

// UpdateScore adds delta to the team's score, clamped at zero.
func (s *Service) UpdateScore(ctx context.Context, teamID, delta int) error {
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			if teams[i].ID == teamID {
				next := teams[i].Score + delta
				if next < 0 {
					next = 0
				}
				teams[i].Score = next
			}
		}
	})
}

// UpdateTeamImage replaces the team's display image URL.
func (s *Service) UpdateTeamImage(ctx context.Context, teamName, imageURL string) error {
	if err := requireName("image url", imageURL); err != nil {
		return err
	}
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			if teams[i].Name == teamName {
				teams[i].Image = imageURL
			}
		}
	})
}

// UpdateTeamName renames a team. Already-distributed join links keep the old
// name; they resolve through the member-name fallback lookup instead.
func (s *Service) UpdateTeamName(ctx context.Context, teamID int, newName string) error {
	if err := requireName("team name", newName); err != nil {
		return err
	}
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			if teams[i].ID == teamID {
				teams[i].Name = newName
			}
		}
	})
}

// Buzz records one buzzer press for a member of the named team. Presses are
// appended in arrival order and never deduplicated per member; the race is
// resolved for display from the timestamps, not from arrival order.
func (s *Service) Buzz(ctx context.Context, teamName, memberName string, timestamp int64) error {
	if err := requireName("member name", memberName); err != nil {
		return err
	}
	if timestamp <= 0 {
		return &ValidationError{Field: "timestamp", Reason: "must be positive epoch milliseconds"}
	}
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			if teams[i].Name == teamName {
				teams[i].Buzzes = append(teams[i].Buzzes, models.BuzzRecord{
					MemberName: memberName,
					Timestamp:  timestamp,
				})
			}
		}
	})
}

// ResetBuzzers clears every team's buzz list. This is the only way buzzes
// are cleared short of a new game.
func (s *Service) ResetBuzzers(ctx context.Context) error {
	return s.mutateTeams(ctx, func(teams []models.Team) {
		for i := range teams {
			teams[i].Buzzes = nil
		}
	})
}

// NewGame replaces the whole roster with the canonical default set and
// resets the game state to round 1.
func (s *Service) NewGame(ctx context.Context) error {
	if err := s.writeTeams(ctx, models.DefaultTeams()); err != nil {
		log.Error().Err(err).Msg("new game write failed")
		return err
	}
	if err := s.writeGameState(ctx, models.DefaultGameState()); err != nil {
		log.Error().Err(err).Msg("new game state write failed")
		return err
	}
	return nil
}

// UpdateGameState replaces the round record.
func (s *Service) UpdateGameState(ctx context.Context, roundNumber int, roundText string) error {
	if roundNumber < 1 {
		return &ValidationError{Field: "round number", Reason: "must be at least 1"}
	}
	if err := s.writeGameState(ctx, models.GameState{RoundNumber: roundNumber, RoundText: roundText}); err != nil {
		log.Error().Err(err).Msg("game state write failed")
		return err
	}
	return nil
}

// mutateTeams runs the read-merge-write cycle: deep-copy the mirrored list,
// let apply change it, write the full document. The mirror is left alone;
// it converges when the subscription delivers the write back.
func (s *Service) mutateTeams(ctx context.Context, apply func([]models.Team)) error {
	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return ErrNotLoaded
	}
	teams := models.CloneTeams(s.teams)
	s.mu.RUnlock()

	apply(teams)

	if err := s.writeTeams(ctx, teams); err != nil {
		log.Error().Err(err).Msg("team document write failed")
		return err
	}
	return nil
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
