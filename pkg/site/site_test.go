package site_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/mocks"
	"github.com/foreman/foreman/pkg/site"
	"github.com/foreman/foreman/pkg/types"
	"github.com/foreman/foreman/pkg/weather"
)

func TestSubmitTask_Validation(t *testing.T) {
	s, err := site.New(types.Resources{Bricks: 10}, 0)
	require.NoError(t, err)

	tests := []struct {
		name    string
		task    string
		bricks  int
		cement  int
		tools   int
		wantErr error
	}{
		{"valid", "wall", 3, 1, 0, nil},
		{"zero demand", "inspection", 0, 0, 0, nil},
		{"negative bricks", "wall", -1, 0, 0, types.ErrInvalidQuantity},
		{"negative tools", "wall", 0, 0, -2, types.ErrInvalidQuantity},
		{"empty name", "", 1, 0, 0, types.ErrInvalidTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := s.SubmitTask(tt.task, tt.bricks, tt.cement, tt.tools, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, task.ID)
			assert.False(t, task.SubmittedAt.IsZero())
		})
	}

	assert.Equal(t, 2, s.Pending())
}

func TestNew_RejectsNegativeStock(t *testing.T) {
	_, err := site.New(types.Resources{Cement: -1}, 0)
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
}

func TestHireAndTerminate(t *testing.T) {
	s, err := site.New(types.Resources{}, 0)
	require.NoError(t, err)

	require.NoError(t, s.HireWorker("Ali", 0))
	require.NoError(t, s.HireWorker("Bilal", 15))
	assert.ErrorIs(t, s.HireWorker("Ali", 5), types.ErrDuplicateWorker)
	assert.ErrorIs(t, s.HireWorker("Usman", -3), types.ErrInvalidProficiency)

	snap := s.WorkerSnapshot()
	require.Len(t, snap.Active, 2)
	assert.Equal(t, types.DefaultProficiency, snap.Active[0].Proficiency)
	assert.Equal(t, 15, snap.Active[1].Proficiency)

	require.NoError(t, s.TerminateWorker("Ali"))
	assert.ErrorIs(t, s.TerminateWorker("Ali"), types.ErrNotFound)
	assert.Len(t, s.WorkerSnapshot().Active, 1)
}

func TestRunCycle_ScenarioSmallStock(t *testing.T) {
	s, err := site.New(types.Resources{Bricks: 2}, 0)
	require.NoError(t, err)
	require.NoError(t, s.HireWorker("Ali", 0))
	require.NoError(t, s.HireWorker("Bilal", 0))
	_, err = s.SubmitTask("wall", 1, 0, 0, 1)
	require.NoError(t, err)

	report := s.RunCycle(context.Background())

	require.Len(t, report.Completed, 1)
	assert.Equal(t, types.Resources{Bricks: 2}, s.ResourceSnapshot())
	snap := s.WorkerSnapshot()
	assert.Equal(t, 9, snap.Active[0].Proficiency)
	assert.Equal(t, 10, snap.Active[1].Proficiency)
	assert.Empty(t, s.QueueSnapshot())
}

func TestRunCycle_ScenarioShortStock(t *testing.T) {
	s, err := site.New(types.Resources{Bricks: 100}, 0)
	require.NoError(t, err)
	require.NoError(t, s.HireWorker("Ali", 0))
	_, err = s.SubmitTask("tower", 150, 0, 0, 2)
	require.NoError(t, err)

	report := s.RunCycle(context.Background())

	require.Len(t, report.Deferred, 1)
	assert.Equal(t, types.Resources{Bricks: 100}, s.ResourceSnapshot())
	queued := s.QueueSnapshot()
	require.Len(t, queued, 1)
	assert.Equal(t, "tower", queued[0].Name)
	assert.Equal(t, 2, queued[0].Priority)
}

func TestRecallWorker(t *testing.T) {
	s, err := site.New(types.Resources{Bricks: 30}, 0)
	require.NoError(t, err)

	_, err = s.RecallWorker()
	assert.ErrorIs(t, err, types.ErrNoRestingWorkers)

	require.NoError(t, s.HireWorker("Ali", 1))
	require.NoError(t, s.HireWorker("Bilal", 1))
	_, err = s.SubmitTask("wall", 2, 0, 0, 1)
	require.NoError(t, err)
	s.RunCycle(context.Background())

	snap := s.WorkerSnapshot()
	assert.Empty(t, snap.Active)
	assert.Len(t, snap.Resting, 2)

	name, err := s.RecallWorker()
	require.NoError(t, err)
	assert.Equal(t, "Ali", name)
	name, err = s.RecallWorker()
	require.NoError(t, err)
	assert.Equal(t, "Bilal", name)

	snap = s.WorkerSnapshot()
	require.Len(t, snap.Active, 2)
	assert.Equal(t, types.DefaultProficiency, snap.Active[0].Proficiency)
}

func TestRunCycle_NotifiesAndHonoursGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)

	s, err := site.New(types.Resources{Bricks: 5}, 0,
		site.WithGate(weather.Fixed(weather.Rainy)),
		site.WithNotifier(n))
	require.NoError(t, err)
	require.NoError(t, s.HireWorker("Ali", 0))
	_, err = s.SubmitTask("wall", 1, 0, 0, 1)
	require.NoError(t, err)

	var reports []*types.CycleReport
	n.EXPECT().NotifyCycle(gomock.Any()).Do(func(r *types.CycleReport) {
		reports = append(reports, r)
	}).Times(2)

	s.RunCycle(context.Background())
	s.SetGate(weather.Fixed(weather.Clear))
	s.RunCycle(context.Background())

	require.Len(t, reports, 2)
	assert.True(t, reports[0].Skipped)
	assert.Equal(t, "Rainy", reports[0].Weather)
	assert.Len(t, reports[1].Completed, 1)
}

func TestRecallWorker_Notifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)

	s, err := site.FromConfig(&types.SiteConfig{
		Workers: []types.WorkerConfig{{Name: "Shahzaib", Resting: true}},
		Weather: &types.WeatherConfig{Mode: types.WeatherModeClear},
	}, site.WithNotifier(n))
	require.NoError(t, err)

	n.EXPECT().NotifyWorkerReturned("Shahzaib")

	name, err := s.RecallWorker()
	require.NoError(t, err)
	assert.Equal(t, "Shahzaib", name)
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := &types.SiteConfig{
		Name:               "tower-block",
		Resources:          types.Resources{Bricks: 100, Cement: 50, Tools: 10},
		DefaultProficiency: 20,
		Workers: []types.WorkerConfig{
			{Name: "Ali"},
			{Name: "Afaq", Proficiency: 4},
			{Name: "Shahzaib", Resting: true},
		},
		Tasks: []types.TaskConfig{
			{Name: "roof", Bricks: 5, Priority: 3},
			{Name: "foundation", Bricks: 10, Cement: 5, Tools: 2, Priority: 1},
		},
		Weather: &types.WeatherConfig{Mode: types.WeatherModeStormy},
	}

	s, err := site.FromConfig(cfg, site.WithLogger(logger.CreateLoggerWithOutput("", "info", &buf)))
	require.NoError(t, err)
	assert.Equal(t, "tower-block", s.Name())

	snap := s.WorkerSnapshot()
	require.Len(t, snap.Active, 2)
	assert.Equal(t, 20, snap.Active[0].Proficiency)
	assert.Equal(t, 4, snap.Active[1].Proficiency)
	require.Len(t, snap.Resting, 1)
	assert.Equal(t, "Shahzaib", snap.Resting[0].Name)

	queued := s.QueueSnapshot()
	require.Len(t, queued, 2)
	assert.Equal(t, "foundation", queued[0].Name)

	report := s.RunCycle(context.Background())
	assert.Equal(t, "Stormy", report.Weather)
	assert.Len(t, report.Completed, 2)
	assert.Contains(t, buf.String(), "[tower-block] Task added")
}

func TestFromConfig_Errors(t *testing.T) {
	_, err := site.FromConfig(nil)
	assert.Error(t, err)

	_, err = site.FromConfig(&types.SiteConfig{Weather: &types.WeatherConfig{Mode: "foggy"}})
	assert.Error(t, err)

	_, err = site.FromConfig(&types.SiteConfig{
		Workers: []types.WorkerConfig{{Name: "Ali"}, {Name: "Ali"}},
	})
	assert.ErrorIs(t, err, types.ErrDuplicateWorker)

	_, err = site.FromConfig(&types.SiteConfig{
		Tasks: []types.TaskConfig{{Name: "wall", Bricks: -1}},
	})
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
}

func TestConcurrentAccess(t *testing.T) {
	initial := types.Resources{Bricks: 50, Cement: 20, Tools: 5}
	s, err := site.New(initial, 0)
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.HireWorker(name, 0))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = s.SubmitTask("job", j%7, j%3, j%2, j%4)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.RunCycle(context.Background())
				_, _ = s.RecallWorker()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				snap := s.ResourceSnapshot()
				assert.False(t, snap.HasNegative())
				_ = s.WorkerSnapshot()
				_ = s.QueueSnapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initial, s.ResourceSnapshot())
}
