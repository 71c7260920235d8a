package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrLikeExists    = errors.New("interaction already liked")
	ErrLikeMissing   = errors.New("interaction not liked")
	ErrTargetMissing = errors.New("interaction target not found")
)

type InteractionRepo interface {
	Like(ctx context.Context, userID uint64, targetType string, targetID uint64) error
	Unlike(ctx context.Context, userID uint64, targetType string, targetID uint64) error
	IsLiked(ctx context.Context, userID uint64, targetType string, targetID uint64) (bool, error)
	GetLikedUserIDs(ctx context.Context, targetType string, targetIDs []uint64) (map[uint64][]uint64, error)
	CountLiked(ctx context.Context, targetType string, targetID uint64) (int64, error)
	SyncLikeCounts(ctx context.Context, targetType string, targetIDs []uint64) error
}

type InteractionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &InteractionRepoImpl{db: db}
}

func targetTable(targetType string) (string, error) {
	switch targetType {
	case model.TargetPost:
		return model.Post{}.TableName(), nil
	case model.TargetComment:
		return model.Comment{}.TableName(), nil
	}
	return "", fmt.Errorf("unknown interaction target type: %s", targetType)
}

// Like 点赞：锁定目标行与互动行，状态从未点赞翻转为已点赞并将计数加一
func (s *InteractionRepoImpl) Like(ctx context.Context, userID uint64, targetType string, targetID uint64) error {
	table, err := targetTable(targetType)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTarget(tx, table, targetID); err != nil {
			return err
		}

		row, err := lockInteraction(tx, userID, targetType, targetID)
		if err != nil {
			return err
		}

		switch {
		case row == nil:
			row = &model.Interaction{UserID: userID, TargetType: targetType, TargetID: targetID, Liked: true}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		case row.Liked:
			return ErrLikeExists
		default:
			if err := tx.Model(row).Update("liked", true).Error; err != nil {
				return err
			}
		}

		return tx.Table(table).
			Where("id = ?", targetID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error
	})
	if IsDuplicateError(err) {
		return ErrLikeExists
	}
	return err
}

// Unlike 取消点赞：只有已点赞状态可以翻转，计数不会低于 0
func (s *InteractionRepoImpl) Unlike(ctx context.Context, userID uint64, targetType string, targetID uint64) error {
	table, err := targetTable(targetType)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTarget(tx, table, targetID); err != nil {
			return err
		}

		row, err := lockInteraction(tx, userID, targetType, targetID)
		if err != nil {
			return err
		}
		if row == nil || !row.Liked {
			return ErrLikeMissing
		}

		if err := tx.Model(row).Update("liked", false).Error; err != nil {
			return err
		}

		return tx.Table(table).
			Where("id = ?", targetID).
			UpdateColumn("likes", gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")).Error
	})
}

func lockTarget(tx *gorm.DB, table string, targetID uint64) error {
	var id uint64
	err := tx.Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", targetID).
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return err
	}
	if id == 0 {
		return ErrTargetMissing
	}
	return nil
}

func lockInteraction(tx *gorm.DB, userID uint64, targetType string, targetID uint64) (*model.Interaction, error) {
	var row model.Interaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Take(&row).Error
	return ignoreNotFound(&row, err)
}

func (s *InteractionRepoImpl) IsLiked(ctx context.Context, userID uint64, targetType string, targetID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Interaction{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND liked = ?", userID, targetType, targetID, true).
		Count(&count).Error
	return count > 0, err
}

// GetLikedUserIDs 批量获取目标的点赞用户，按点赞时间先后排列
func (s *InteractionRepoImpl) GetLikedUserIDs(ctx context.Context, targetType string, targetIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}

	var rows []model.Interaction
	err := s.db.WithContext(ctx).
		Select("user_id", "target_id").
		Where("target_type = ? AND target_id IN ? AND liked = ?", targetType, targetIDs, true).
		Order("updated_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TargetID] = append(result[row.TargetID], row.UserID)
	}
	return result, nil
}

func (s *InteractionRepoImpl) CountLiked(ctx context.Context, targetType string, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Interaction{}).
		Where("target_type = ? AND target_id = ? AND liked = ?", targetType, targetID, true).
		Count(&count).Error
	return count, err
}

// SyncLikeCounts 用互动记录重算目标的 likes 计数
func (s *InteractionRepoImpl) SyncLikeCounts(ctx context.Context, targetType string, targetIDs []uint64) error {
	if len(targetIDs) == 0 {
		return nil
	}
	table, err := targetTable(targetType)
	if err != nil {
		return err
	}

	sub := s.db.Model(&model.Interaction{}).
		Select("COUNT(*)").
		Where("interactions.target_type = ? AND interactions.target_id = "+table+".id AND interactions.liked = ?", targetType, true)

	return s.db.WithContext(ctx).
		Table(table).
		Where("id IN ?", targetIDs).
		UpdateColumn("likes", sub).Error
}
