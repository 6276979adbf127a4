package pages

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/poller"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

type SettingsSource interface {
	AWSSettings(ctx context.Context) (*models.AWSSettings, error)
	SaveAWSSettings(ctx context.Context, s models.AWSSettings) error
	TestAWS(ctx context.Context, s models.AWSSettings) error
	RetentionSettings(ctx context.Context) (*models.RetentionSettings, error)
	SaveRetentionSettings(ctx context.Context, s models.RetentionSettings) error
	TimezoneSettings(ctx context.Context) (*models.TimezoneSettings, error)
	SaveTimezoneSettings(ctx context.Context, s models.TimezoneSettings) error
}

type SettingsData struct {
	AWS       models.AWSSettings
	Retention models.RetentionSettings
	Timezone  models.TimezoneSettings
}

// Settings edits the AWS, retention and timezone configuration. The stored
// values are re-read periodically so edits made elsewhere show up.
type Settings struct {
	src     SettingsSource
	logger  logging.Logger
	banner  *status.Banner
	actions *actions

	life lifecycle
	data loader[SettingsData]
	poll *poller.Poller
}

func NewSettings(src SettingsSource, deps Deps) *Settings {
	deps = deps.withDefaults("settings")
	s := &Settings{
		src:     src,
		logger:  deps.Logger,
		banner:  deps.Banner,
		actions: newActions(deps.Banner),
	}
	s.poll = poller.New(deps.PollInterval, func(ctx context.Context) error {
		return s.load(ctx, true)
	}, poller.WithClock(deps.Clock), poller.WithLogger(deps.Logger))
	return s
}

// Mount loads all three groups. Only this first load reports failure on
// the banner; periodic reloads fail quietly.
func (s *Settings) Mount(ctx context.Context) error {
	s.poll.Stop()
	lctx := s.life.start(ctx)
	err := s.load(ctx, false)
	if err != nil && !api.IsUnauthorized(err) && !errors.Is(err, context.Canceled) {
		s.banner.Show(status.Error(api.Message(err, "Failed to load settings")))
	}
	s.poll.Start(lctx)
	return err
}

func (s *Settings) Unmount() {
	s.poll.Stop()
	s.life.stop()
}

func (s *Settings) load(ctx context.Context, quiet bool) error {
	_, err := s.data.run(ctx, quiet, func(ctx context.Context) (*SettingsData, error) {
		var (
			wg                 sync.WaitGroup
			aws                *models.AWSSettings
			ret                *models.RetentionSettings
			tz                 *models.TimezoneSettings
			awsErr, rErr, tErr error
		)
		wg.Add(3)
		go func() {
			defer wg.Done()
			aws, awsErr = s.src.AWSSettings(ctx)
		}()
		go func() {
			defer wg.Done()
			ret, rErr = s.src.RetentionSettings(ctx)
		}()
		go func() {
			defer wg.Done()
			tz, tErr = s.src.TimezoneSettings(ctx)
		}()
		wg.Wait()

		if err := errors.Join(awsErr, rErr, tErr); err != nil {
			return nil, err
		}
		return &SettingsData{AWS: *aws, Retention: *ret, Timezone: *tz}, nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to load settings", "error", err)
	}
	return err
}

func (s *Settings) SaveAWS(ctx context.Context, v models.AWSSettings) error {
	v.Region = strings.TrimSpace(v.Region)
	return s.actions.do(ctx, "save-aws", func(ctx context.Context) (status.Message, error) {
		if err := s.src.SaveAWSSettings(ctx, v); err != nil {
			return status.Error(api.Message(err, "Failed to save settings")), err
		}
		_ = s.load(ctx, true)
		return status.Success("Settings saved successfully"), nil
	})
}

// TestAWS checks the given credentials without saving them.
func (s *Settings) TestAWS(ctx context.Context, v models.AWSSettings) error {
	v.Region = strings.TrimSpace(v.Region)
	return s.actions.do(ctx, "test-aws", func(ctx context.Context) (status.Message, error) {
		if err := s.src.TestAWS(ctx, v); err != nil {
			return status.Error(api.Message(err, "Connection test failed")), err
		}
		return status.Success("AWS connection successful").For(status.ErrorDismiss), nil
	})
}

func (s *Settings) SaveRetention(ctx context.Context, v models.RetentionSettings) error {
	if v.RetentionDays < 0 {
		return ErrEmptyInput
	}
	return s.actions.do(ctx, "save-retention", func(ctx context.Context) (status.Message, error) {
		if err := s.src.SaveRetentionSettings(ctx, v); err != nil {
			return status.Error(api.Message(err, "Failed to save retention settings")), err
		}
		_ = s.load(ctx, true)
		return status.Success("Retention settings saved successfully"), nil
	})
}

func (s *Settings) SaveTimezone(ctx context.Context, v models.TimezoneSettings) error {
	v.Timezone = strings.TrimSpace(v.Timezone)
	if v.Timezone == "" {
		return ErrEmptyInput
	}
	return s.actions.do(ctx, "save-timezone", func(ctx context.Context) (status.Message, error) {
		if err := s.src.SaveTimezoneSettings(ctx, v); err != nil {
			return status.Error(api.Message(err, "Failed to save timezone settings")), err
		}
		_ = s.load(ctx, true)
		return status.Success("Timezone settings saved successfully"), nil
	})
}

func (s *Settings) Busy(action string) bool {
	return s.actions.busy(action)
}

type SettingsView struct {
	Loading    bool
	Refreshing bool
	HasData    bool
	SettingsData
}

func (s *Settings) View() SettingsView {
	snap := s.data.snapshot()
	v := SettingsView{Loading: snap.loading, Refreshing: snap.refreshing}
	if snap.loading || snap.data == nil {
		return v
	}
	v.HasData = true
	v.SettingsData = *snap.data
	return v
}
