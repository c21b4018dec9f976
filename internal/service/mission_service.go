package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"questboard/internal/model"
	"questboard/internal/repository"
)

// MissionInput represents data required to create a mission.
type MissionInput struct {
	Title                   string
	Description             string
	RewardPoints            int
	RequiredTaskCount       int
	RequiredDurationMinutes int
	IsTaskOnly              bool
	IsDurationOnly          bool
	StartDate               time.Time
	EndDate                 time.Time
}

// MissionService drives the per-user mission state machine:
// unclaimed → claimed → completed → reward-claimed.
type MissionService struct {
	db           *gorm.DB
	missions     *repository.MissionRepository
	userMissions *repository.UserMissionRepository
	users        *repository.UserRepository
	tasks        *repository.TaskRepository
	ledger       *LedgerService
	clock        Clock
	logger       *zap.Logger
}

func NewMissionService(
	db *gorm.DB,
	missions *repository.MissionRepository,
	userMissions *repository.UserMissionRepository,
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	ledger *LedgerService,
	clock Clock,
	logger *zap.Logger,
) *MissionService {
	return &MissionService{
		db:           db,
		missions:     missions,
		userMissions: userMissions,
		users:        users,
		tasks:        tasks,
		ledger:       ledger,
		clock:        clock,
		logger:       logger,
	}
}

// CreateMission registers a new admin-owned mission.
func (s *MissionService) CreateMission(ctx context.Context, input MissionInput) (*model.Mission, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.IsTaskOnly && input.IsDurationOnly {
		return nil, fmt.Errorf("%w: task-only and duration-only are mutually exclusive", ErrInvalidInput)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	mission := model.Mission{
		Title:                   input.Title,
		Description:             input.Description,
		RewardPoints:            input.RewardPoints,
		RequiredTaskCount:       input.RequiredTaskCount,
		RequiredDurationMinutes: input.RequiredDurationMinutes,
		IsTaskOnly:              input.IsTaskOnly,
		IsDurationOnly:          input.IsDurationOnly,
		StartDate:               input.StartDate,
		EndDate:                 input.EndDate,
		Status:                  model.MissionStatusActive,
	}
	if err := s.missions.Create(ctx, &mission); err != nil {
		return nil, err
	}
	return &mission, nil
}

func (s *MissionService) ListMissions(ctx context.Context) ([]model.Mission, error) {
	return s.missions.ListAll(ctx)
}

func (s *MissionService) ListUserMissions(ctx context.Context, userID uint) ([]model.UserMission, error) {
	if err := s.ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return s.userMissions.ListByUser(ctx, userID)
}

// Claim opts the user into a mission by creating its progress record.
// A second claim for the same pair fails with ErrAlreadyClaimed; the
// unique index backs that check under concurrency.
func (s *MissionService) Claim(ctx context.Context, userID, missionID uint) (*model.UserMission, error) {
	var um *model.UserMission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := s.missions.WithTx(tx).FindByID(ctx, missionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMissionNotFound
			}
			return fmt.Errorf("find mission: %w", err)
		}

		if _, err := s.userMissions.WithTx(tx).Find(ctx, userID, missionID); err == nil {
			return ErrAlreadyClaimed
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find user mission: %w", err)
		}

		um = &model.UserMission{UserID: userID, MissionID: missionID}
		if err := s.userMissions.WithTx(tx).Create(ctx, um); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyClaimed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return um, nil
}

// EvaluateCompletion recomputes the mission criteria from the user's
// completed tasks since the mission start. Re-evaluating an already
// completed mission is a no-op returning the unchanged record.
func (s *MissionService) EvaluateCompletion(ctx context.Context, userID, missionID uint) (*model.UserMission, error) {
	var state *model.UserMission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mission, err := s.missions.WithTx(tx).FindByID(ctx, missionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMissionNotFound
			}
			return fmt.Errorf("find mission: %w", err)
		}

		um, err := s.userMissions.WithTx(tx).Find(ctx, userID, missionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotClaimed
			}
			return fmt.Errorf("find user mission: %w", err)
		}
		if um.IsCompleted {
			state = um
			return nil
		}

		count, minutes, err := s.tasks.WithTx(tx).CompletedStats(ctx, userID, mission.StartDate)
		if err != nil {
			return err
		}
		if !criteriaSatisfied(mission, count, minutes) {
			state = um
			return nil
		}

		now := s.clock.Now()
		flipped, err := s.userMissions.WithTx(tx).MarkCompleted(ctx, um.ID, now)
		if err != nil {
			return err
		}
		if flipped {
			um.IsCompleted = true
			um.CompletedAt = &now
		}
		state = um
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ClaimReward credits the mission reward exactly once. The state flip
// and the ledger credit commit as one unit: a reward is never recorded
// as claimed without its matching point credit.
func (s *MissionService) ClaimReward(ctx context.Context, userID, missionID uint) (*model.UserMission, error) {
	var state *model.UserMission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mission, err := s.missions.WithTx(tx).FindByID(ctx, missionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMissionNotFound
			}
			return fmt.Errorf("find mission: %w", err)
		}

		um, err := s.userMissions.WithTx(tx).Find(ctx, userID, missionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotCompleted
			}
			return fmt.Errorf("find user mission: %w", err)
		}
		if um.IsRewardClaimed {
			return ErrAlreadyRewardClaimed
		}
		if !um.IsCompleted {
			return ErrNotCompleted
		}

		now := s.clock.Now()
		flipped, err := s.userMissions.WithTx(tx).MarkRewardClaimed(ctx, um.ID, now)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrAlreadyRewardClaimed
		}

		description := fmt.Sprintf("Reward for mission %q", mission.Title)
		if _, err := s.ledger.applyDelta(ctx, tx, userID, mission.RewardPoints, model.TransactionMissionCompletion, description); err != nil {
			return err
		}

		um.IsRewardClaimed = true
		um.RewardClaimedAt = &now
		state = um
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// EvaluateUserMissions re-evaluates all of the user's claimed,
// uncompleted missions. Called after a task completes so progress shows
// up without waiting for the periodic sweep.
func (s *MissionService) EvaluateUserMissions(ctx context.Context, userID uint) ([]model.UserMission, error) {
	ums, err := s.ListUserMissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	states := make([]model.UserMission, 0, len(ums))
	for _, um := range ums {
		if um.IsCompleted {
			states = append(states, um)
			continue
		}
		state, err := s.EvaluateCompletion(ctx, userID, um.MissionID)
		if err != nil {
			return nil, err
		}
		states = append(states, *state)
	}
	return states, nil
}

// SweepExpired is the periodic batch pass: ACTIVE missions past their
// end date become EXPIRED, everyone holding a still-active mission gets
// re-evaluated. The sweep is advisory; per-pair failures are logged and
// the next tick corrects anything missed.
func (s *MissionService) SweepExpired(ctx context.Context) error {
	now := s.clock.Now()
	missions, err := s.missions.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active missions: %w", err)
	}

	for _, mission := range missions {
		if mission.EndDate.Before(now) {
			if _, err := s.missions.MarkExpired(ctx, mission.ID); err != nil {
				s.logger.Warn("expire mission failed", zap.Uint("mission_id", mission.ID), zap.Error(err))
			}
			continue
		}

		holders, err := s.userMissions.ListByMission(ctx, mission.ID)
		if err != nil {
			s.logger.Warn("list mission holders failed", zap.Uint("mission_id", mission.ID), zap.Error(err))
			continue
		}
		for _, um := range holders {
			if um.IsCompleted {
				continue
			}
			if _, err := s.EvaluateCompletion(ctx, um.UserID, mission.ID); err != nil {
				s.logger.Warn("evaluate mission failed",
					zap.Uint("mission_id", mission.ID),
					zap.Uint("user_id", um.UserID),
					zap.Error(err))
			}
		}
	}
	return nil
}

func (s *MissionService) ensureUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	if _, err := s.users.WithTx(tx).FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}

func criteriaSatisfied(mission *model.Mission, completedCount, completedMinutes int64) bool {
	switch {
	case mission.IsDurationOnly:
		return completedMinutes >= int64(mission.RequiredDurationMinutes)
	case mission.IsTaskOnly:
		return completedCount >= int64(mission.RequiredTaskCount)
	default:
		return completedCount >= int64(mission.RequiredTaskCount) &&
			completedMinutes >= int64(mission.RequiredDurationMinutes)
	}
}
