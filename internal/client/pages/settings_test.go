package pages

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	mu        sync.Mutex
	aws       models.AWSSettings
	retention models.RetentionSettings
	timezone  models.TimezoneSettings
	loads     int
	loadErr   error
	saveErr   error
	testErr   error
}

func (f *fakeSettings) AWSSettings(context.Context) (*models.AWSSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	v := f.aws
	return &v, nil
}

func (f *fakeSettings) SaveAWSSettings(_ context.Context, s models.AWSSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.aws = s
	return nil
}

func (f *fakeSettings) TestAWS(context.Context, models.AWSSettings) error {
	return f.testErr
}

func (f *fakeSettings) RetentionSettings(context.Context) (*models.RetentionSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.retention
	return &v, nil
}

func (f *fakeSettings) SaveRetentionSettings(_ context.Context, s models.RetentionSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retention = s
	return nil
}

func (f *fakeSettings) TimezoneSettings(context.Context) (*models.TimezoneSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.timezone
	return &v, nil
}

func (f *fakeSettings) SaveTimezoneSettings(_ context.Context, s models.TimezoneSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timezone = s
	return nil
}

func (f *fakeSettings) awsLoads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func TestSettings_MountLoadsAllGroups(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeSettings{
		aws:       models.AWSSettings{Enabled: true, Region: "eu-west-1", AccessKey: "AKIA****"},
		retention: models.RetentionSettings{RetentionDays: 90, Enabled: true},
		timezone:  models.TimezoneSettings{Timezone: "UTC"},
	}
	s := NewSettings(src, deps)
	require.NoError(t, s.Mount(context.Background()))
	t.Cleanup(s.Unmount)

	v := s.View()
	require.True(t, v.HasData)
	assert.Equal(t, "eu-west-1", v.AWS.Region)
	assert.Equal(t, 90, v.Retention.RetentionDays)
	assert.Equal(t, "UTC", v.Timezone.Timezone)
}

func TestSettings_FirstLoadFailureShowsBanner(t *testing.T) {
	deps, _ := testDeps()
	s := NewSettings(&fakeSettings{loadErr: api.ErrUnavailable}, deps)

	assert.Error(t, s.Mount(context.Background()))
	t.Cleanup(s.Unmount)
	assert.Equal(t, "Failed to load settings", bannerText(deps))
	assert.False(t, s.View().Loading)
}

func TestSettings_PeriodicReloadFailsQuietly(t *testing.T) {
	deps, clock := testDeps()
	src := &fakeSettings{}
	s := NewSettings(src, deps)
	require.NoError(t, s.Mount(context.Background()))
	t.Cleanup(s.Unmount)

	src.mu.Lock()
	src.loadErr = api.ErrUnavailable
	src.mu.Unlock()

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)
	require.Eventually(t, func() bool { return src.awsLoads() == 2 }, waitFor, 5*time.Millisecond)

	_, visible := deps.Banner.Current()
	assert.False(t, visible)
	assert.True(t, s.View().HasData)
}

func TestSettings_SaveAWSShowsBackendError(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeSettings{saveErr: &api.Error{Status: http.StatusBadRequest, Message: "invalid region"}}
	s := NewSettings(src, deps)
	require.NoError(t, s.Mount(context.Background()))
	t.Cleanup(s.Unmount)

	err := s.SaveAWS(context.Background(), models.AWSSettings{Region: "nowhere"})
	assert.Error(t, err)
	assert.Equal(t, "invalid region", bannerText(deps))
	assert.Equal(t, status.KindError, bannerKind(deps))
}

func TestSettings_SaveReloads(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeSettings{}
	s := NewSettings(src, deps)
	ctx := context.Background()
	require.NoError(t, s.Mount(ctx))
	t.Cleanup(s.Unmount)

	require.NoError(t, s.SaveAWS(ctx, models.AWSSettings{Enabled: true, Region: " us-east-1 "}))
	assert.Equal(t, "Settings saved successfully", bannerText(deps))
	assert.Equal(t, "us-east-1", s.View().AWS.Region)

	require.NoError(t, s.SaveRetention(ctx, models.RetentionSettings{RetentionDays: 30, Enabled: true}))
	assert.Equal(t, "Retention settings saved successfully", bannerText(deps))
	assert.Equal(t, 30, s.View().Retention.RetentionDays)

	require.NoError(t, s.SaveTimezone(ctx, models.TimezoneSettings{Timezone: "Europe/Riga"}))
	assert.Equal(t, "Timezone settings saved successfully", bannerText(deps))
	assert.Equal(t, "Europe/Riga", s.View().Timezone.Timezone)

	assert.ErrorIs(t, s.SaveTimezone(ctx, models.TimezoneSettings{}), ErrEmptyInput)
	assert.ErrorIs(t, s.SaveRetention(ctx, models.RetentionSettings{RetentionDays: -1}), ErrEmptyInput)
}

func TestSettings_TestAWS(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeSettings{}
	s := NewSettings(src, deps)
	ctx := context.Background()

	require.NoError(t, s.TestAWS(ctx, models.AWSSettings{Region: "eu-west-1"}))
	m, _ := deps.Banner.Current()
	assert.Equal(t, "AWS connection successful", m.Text)
	assert.Equal(t, 5*time.Second, m.AutoDismiss)

	src.testErr = &api.Error{Status: http.StatusBadRequest, Message: "invalid region"}
	assert.Error(t, s.TestAWS(ctx, models.AWSSettings{Region: "x"}))
	m, _ = deps.Banner.Current()
	assert.Equal(t, "invalid region", m.Text)
	assert.Equal(t, 5*time.Second, m.AutoDismiss)

	src.testErr = api.ErrUnavailable
	assert.Error(t, s.TestAWS(ctx, models.AWSSettings{}))
	assert.Equal(t, "Connection test failed", bannerText(deps))
}
