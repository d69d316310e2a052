package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// altHandlePrefix marks a lookup by alt handle that should resolve to the
// alt's owner.
const altHandlePrefix = "x"

const notifyTimeout = 30 * time.Second

// Notifier delivers moderation notices to a chat service.
type Notifier interface {
	CreateThread(ctx context.Context, channelID, name string) (string, error)
	SendMessage(ctx context.Context, channelID, content string) error
}

// ObjectRemover deletes blobs backing file resources.
type ObjectRemover interface {
	RemoveObjects(ctx context.Context, keys []string) error
}

type AdminService struct {
	db               *gorm.DB
	users            *UserService
	notifier         Notifier
	objects          ObjectRemover
	warningChannelID string
	pending          sync.WaitGroup
	threads          singleflight.Group
}

// NewAdminService wires the moderation workflow. notifier and objects may be
// nil, in which case notifications and blob cleanup are skipped.
func NewAdminService(db *gorm.DB, users *UserService, notifier Notifier, objects ObjectRemover, warningChannelID string) *AdminService {
	return &AdminService{
		db:               db,
		users:            users,
		notifier:         notifier,
		objects:          objects,
		warningChannelID: warningChannelID,
	}
}

// Stats recomputes the dashboard counters on every call.
func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStats, error) {
	db := s.db.WithContext(ctx)
	stats := &dto.AdminStats{Files: make(map[string]int64, len(models.FileKinds))}

	counters := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.Charts.Public, db.Model(&models.Chart{}).Where("visibility = ?", models.VisibilityPublic)},
		{&stats.Charts.Scheduled, db.Model(&models.Chart{}).Where("visibility = ?", models.VisibilityScheduled)},
		{&stats.Charts.Private, db.Model(&models.Chart{}).Where("visibility = ?", models.VisibilityPrivate)},
		{&stats.Users.Original, db.Model(&models.User{}).Where("owner_id IS NULL")},
		{&stats.Users.Alt, db.Model(&models.User{}).Where("owner_id IS NOT NULL")},
		{&stats.Users.Discord, db.Model(&models.User{}).Where("discord_id IS NOT NULL")},
	}
	for _, c := range counters {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	for _, kind := range models.FileKinds {
		var n int64
		if err := db.Model(&models.FileResource{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s files: %w", kind, err)
		}
		stats.Files[string(kind)] = n
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	pool := sqlDB.Stats()
	stats.DB = dto.PoolStats{
		Size:         pool.MaxOpenConnections,
		Connections:  pool.OpenConnections,
		Busy:         pool.InUse,
		Idle:         pool.Idle,
		Waiting:      pool.WaitCount,
		WaitDuration: pool.WaitDuration.Seconds(),
	}
	return stats, nil
}

// CountExpirableData counts the file resources the expiry sweep removes.
func (s *AdminService) CountExpirableData(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.FileResource{}).Where("kind = ?", models.FileKindData).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count data files: %w", err)
	}
	return n, nil
}

// expireBatchSize bounds how many data files one sweep statement touches.
var expireBatchSize = 1000

// ExpireData deletes every data file resource and its blob in batches,
// returning the number of rows removed.
func (s *AdminService) ExpireData(ctx context.Context) (int64, error) {
	var (
		deleted int64
		batch   []models.FileResource
	)
	result := s.db.WithContext(ctx).
		Where("kind = ?", models.FileKindData).
		FindInBatches(&batch, expireBatchSize, func(_ *gorm.DB, _ int) error {
			ids := make([]uint, len(batch))
			for i := range batch {
				ids[i] = batch[i].ID
			}
			res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.FileResource{})
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
			s.removeObjects(ctx, batch)
			return nil
		})
	if result.Error != nil {
		return deleted, fmt.Errorf("failed to delete data files: %w", result.Error)
	}
	return deleted, nil
}

// UserLookup is everything a moderator sees about one account.
type UserLookup struct {
	User     *models.User
	AltUsers []dto.UserResponse
	Warnings []models.UserWarning
	// Owner is the public profile of User, set only for alt-handle lookups.
	Owner *dto.UserResponse
}

// LookupUser resolves handle directly, or, when it carries the alt prefix,
// resolves the alt to its owning account.
func (s *AdminService) LookupUser(ctx context.Context, handle string) (*UserLookup, error) {
	db := s.db.WithContext(ctx)
	viaAlt := strings.HasPrefix(handle, altHandlePrefix)

	var user models.User
	if viaAlt {
		var alt models.User
		err := db.Where("handle = ? AND owner_id IS NOT NULL", strings.TrimPrefix(handle, altHandlePrefix)).First(&alt).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find alt %q: %w", handle, err)
		}
		if err := db.First(&user, *alt.OwnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to load owner of %q: %w", handle, err)
		}
	} else {
		found, err := s.users.FindByHandle(ctx, handle)
		if err != nil {
			return nil, err
		}
		user = *found
	}

	var alts []models.User
	if err := db.Where("owner_id = ?", user.ID).Order("id").Find(&alts).Error; err != nil {
		return nil, fmt.Errorf("failed to load alt users: %w", err)
	}
	altProfiles, err := s.users.Profiles(ctx, alts)
	if err != nil {
		return nil, err
	}

	warnings := make([]models.UserWarning, 0)
	if err := db.Where("user_id = ?", user.ID).Order("created_at DESC, id DESC").Find(&warnings).Error; err != nil {
		return nil, fmt.Errorf("failed to load warnings: %w", err)
	}

	lookup := &UserLookup{User: &user, AltUsers: altProfiles, Warnings: warnings}
	if viaAlt {
		owner, err := s.users.Profiles(ctx, []models.User{user})
		if err != nil {
			return nil, err
		}
		lookup.Owner = &owner[0]
	}
	return lookup, nil
}

// DeleteChart warns the chart's author and deletes the chart. The warning is
// committed before the deletion starts and survives a failed delete.
func (s *AdminService) DeleteChart(ctx context.Context, moderator *models.User, req *dto.DeleteChartRequest) error {
	if err := validateDeleteChart(req); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var chart models.Chart
	if err := db.Preload("Author").Where("name = ?", req.Name).First(&chart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChartNotFound
		}
		return fmt.Errorf("failed to find chart %q: %w", req.Name, err)
	}

	warning := models.UserWarning{
		UserID:      chart.AuthorID,
		ModeratorID: moderator.ID,
		Reason:      req.Reason,
		Level:       models.WarningLevel(req.Level),
		ChartTitle:  chart.Title,
		Seen:        false,
	}
	if err := db.Create(&warning).Error; err != nil {
		return fmt.Errorf("failed to create warning: %w", err)
	}
	slog.Info("warning created",
		"action", "delete_chart",
		"chart", chart.Name,
		"handle", chart.Author.Handle,
		"moderator", moderator.Handle,
		"warning_level", warning.Level,
	)

	if s.notifier != nil {
		author := chart.Author
		if err := db.Model(&models.User{}).Select("warn_count").Where("id = ?", author.ID).Scan(&author.WarnCount).Error; err != nil {
			slog.Warn("failed to reload warn count", "handle", author.Handle, "error", err)
		}
		// the request body buffer is reused once the handler returns
		reason := strings.Clone(req.Reason)
		s.dispatch(ctx, func(ctx context.Context) {
			s.notifyWarning(ctx, author, chart, reason)
		})
	}

	var files []models.FileResource
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chart_id = ?", chart.ID).Find(&files).Error; err != nil {
			return err
		}
		if err := tx.Where("chart_id = ?", chart.ID).Delete(&models.FileResource{}).Error; err != nil {
			return err
		}
		return tx.Delete(&chart).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete chart %q: %w", chart.Name, err)
	}
	s.removeObjects(ctx, files)
	return nil
}

// Wait blocks until every in-flight notification has finished.
func (s *AdminService) Wait() {
	s.pending.Wait()
}

func (s *AdminService) dispatch(ctx context.Context, fn func(context.Context)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *AdminService) notifyWarning(ctx context.Context, author models.User, chart models.Chart, reason string) {
	threadID, err := s.warningThread(ctx, author)
	if err != nil {
		slog.Error("failed to create warning thread", "action", "notify_warning", "handle", author.Handle, "chart", chart.Name, "error", err)
		return
	}

	if err := s.notifier.SendMessage(ctx, threadID, FormatWarningMessage(&author, &chart, reason)); err != nil {
		slog.Error("failed to send warning message", "action", "notify_warning", "handle", author.Handle, "chart", chart.Name, "error", err)
	}
}

// warningThread returns the author's warning thread, creating it on first
// use. Resolution is serialised per author and re-reads the stored id, so
// concurrent warnings share one thread.
func (s *AdminService) warningThread(ctx context.Context, author models.User) (string, error) {
	key := strconv.FormatUint(uint64(author.ID), 10)
	v, err, _ := s.threads.Do(key, func() (any, error) {
		var current models.User
		if err := s.db.WithContext(ctx).Select("id", "discord_thread_id").First(&current, author.ID).Error; err != nil {
			return "", fmt.Errorf("failed to reload author: %w", err)
		}
		if current.DiscordThreadID != nil && *current.DiscordThreadID != "" {
			return *current.DiscordThreadID, nil
		}

		id, err := s.notifier.CreateThread(ctx, s.warningChannelID, "warn-"+author.Handle)
		if err != nil {
			return "", err
		}
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", author.ID).Update("discord_thread_id", id).Error; err != nil {
			slog.Error("failed to save warning thread", "action", "notify_warning", "handle", author.Handle, "error", err)
		}
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *AdminService) removeObjects(ctx context.Context, files []models.FileResource) {
	if s.objects == nil || len(files) == 0 {
		return
	}
	keys := make([]string, 0, len(files))
	for _, f := range files {
		if f.ObjectKey != "" {
			keys = append(keys, f.ObjectKey)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.objects.RemoveObjects(ctx, keys); err != nil {
		slog.Error("failed to remove objects", "action", "remove_objects", "count", len(keys), "error", err)
	}
}

// FormatWarningMessage renders the chat notice for a deleted chart.
func FormatWarningMessage(author *models.User, chart *models.Chart, reason string) string {
	discordID := ""
	if author.DiscordID != nil {
		discordID = *author.DiscordID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**:wastebasket: %s (`%s`) - :warning: %d**\n\n", chart.Title, chart.Name, author.WarnCount)
	b.WriteString(quote(reason))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "*:mailbox: %s / <@%s>*\n", author.String(), discordID)
	return b.String()
}

// quote prefixes every non-empty line with a markdown quote marker.
func quote(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}
