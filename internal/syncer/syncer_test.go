package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/iocache"
	"github.com/huangsam/mades/internal/logging"
	"github.com/huangsam/mades/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDebounce = 30 * time.Millisecond

type fixture struct {
	planner *core.Planner
	local   *iocache.LocalStore
	remote  *iocache.MockRemoteStore
	coord   *Coordinator
}

func newFixture(t *testing.T, withRemote bool) *fixture {
	t.Helper()
	local, err := iocache.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		planner: core.NewPlanner(nil, core.DefaultSettings(), core.WithCompletionDelay(0)),
		local:   local,
	}
	var remote contract.RemoteStore
	if withRemote {
		f.remote = new(iocache.MockRemoteStore)
		remote = f.remote
	}
	f.coord = New(f.planner, local, remote, WithDebounce(testDebounce), WithLogger(logging.Discard()))
	return f
}

func fields(title string) schema.TaskFields {
	return schema.TaskFields{Title: title, M: 5, A: 4, D: 1.5, E: 3}
}

func remoteSnapshot(title string) schema.Snapshot {
	return schema.Snapshot{
		Tasks:  []schema.Task{{ID: "remote-1", Title: title, M: 7, A: 2, D: 1, E: 1, CreatedAt: 1}},
		Config: core.DefaultSettings(),
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 200 {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.Contains(t, CodeAlphabet, string(r))
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190, "codes should practically never repeat")
	assert.Len(t, CodeAlphabet, 32)
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abcd2345", "ABCD2345"},
		{" ab-cd 23_45 ", "ABCD2345"},
		{"", ""},
		{"!!", ""},
		{"äbc", "BC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.input))
		})
	}
}

func TestOfflineMode(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, schema.StatusOffline, f.coord.Status())

	require.NoError(t, f.coord.Start(context.Background()))
	assert.Equal(t, schema.StatusOffline, f.coord.Status())

	_, err := f.planner.Add(fields("local only"))
	require.NoError(t, err)
	require.NoError(t, f.coord.Flush(context.Background()))

	assert.ErrorIs(t, f.coord.Restore(context.Background(), "ABCD2345"), ErrOffline)
	assert.Empty(t, f.coord.Code())
	report := f.coord.Report(schema.NoneBackend)
	assert.Equal(t, schema.StatusOffline, report.Status)
	assert.Nil(t, report.Remote)
}

func TestStartWithoutCodeCreatesRecord(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.planner.Add(fields("first"))
	require.NoError(t, err)

	f.remote.On("Insert", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(s schema.Snapshot) bool {
		return len(s.Tasks) == 1 && s.Tasks[0].Title == "first"
	})).Return(nil).Once()

	require.NoError(t, f.coord.Start(context.Background()))
	assert.Equal(t, schema.StatusSynced, f.coord.Status())

	code := f.coord.Code()
	assert.Len(t, code, CodeLength)
	stored, err := iocache.LoadRecoveryCode(f.local)
	require.NoError(t, err)
	assert.Equal(t, code, stored)
	f.remote.AssertExpectations(t)
}

func TestStartWithCodeRemoteWins(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, iocache.SaveRecoveryCode(f.local, "ABCD2345"))
	_, err := f.planner.Add(fields("local"))
	require.NoError(t, err)

	f.remote.On("Fetch", mock.Anything, "ABCD2345").Return(remoteSnapshot("from remote"), nil).Once()

	require.NoError(t, f.coord.Start(context.Background()))
	tasks := f.planner.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "from remote", tasks[0].Title)
	assert.Equal(t, 7.0, tasks[0].Score, "scores are recomputed on apply")

	// Applying the remote snapshot must not echo a write back.
	require.NoError(t, f.coord.Flush(context.Background()))
	f.remote.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	f.remote.AssertExpectations(t)
}

func TestStartWithUnknownCodeUploadsLocal(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, iocache.SaveRecoveryCode(f.local, "ABCD2345"))

	f.remote.On("Fetch", mock.Anything, "ABCD2345").Return(schema.Snapshot{}, contract.ErrRecordNotFound).Once()
	f.remote.On("Insert", mock.Anything, "ABCD2345", mock.Anything).Return(nil).Once()

	require.NoError(t, f.coord.Start(context.Background()))
	assert.Equal(t, "ABCD2345", f.coord.Code())
	assert.Equal(t, schema.StatusSynced, f.coord.Status())
	f.remote.AssertExpectations(t)
}

func TestDebounceCollapsesWrites(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, iocache.SaveRecoveryCode(f.local, "ABCD2345"))
	f.remote.On("Fetch", mock.Anything, "ABCD2345").Return(schema.Snapshot{}, contract.ErrRecordNotFound).Once()
	f.remote.On("Insert", mock.Anything, "ABCD2345", mock.Anything).Return(nil).Once()
	require.NoError(t, f.coord.Start(context.Background()))

	var mu sync.Mutex
	var written []schema.Snapshot
	f.remote.On("Upsert", mock.Anything, "ABCD2345", mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, args.Get(2).(schema.Snapshot))
	}).Return(nil)

	for _, title := range []string{"one", "two", "three"} {
		_, err := f.planner.Add(fields(title))
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(written) == 1
	}, time.Second, 5*time.Millisecond)

	// Give a stray second write a chance to show up.
	time.Sleep(3 * testDebounce)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, written, 1)
	assert.Len(t, written[0].Tasks, 3, "only the latest snapshot is written")
	assert.Equal(t, schema.StatusSynced, f.coord.Status())
}

func TestFlushWritesPendingImmediately(t *testing.T) {
	f := newFixture(t, true)
	f.coord.debounce = time.Hour
	f.remote.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, f.coord.Start(context.Background()))

	f.remote.On("Upsert", mock.Anything, f.coord.Code(), mock.Anything).Return(nil).Once()
	_, err := f.planner.Add(fields("flush me"))
	require.NoError(t, err)

	require.NoError(t, f.coord.Flush(context.Background()))
	f.remote.AssertExpectations(t)

	// Nothing left to write.
	require.NoError(t, f.coord.Flush(context.Background()))
	f.remote.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestRemoteErrorKeepsLocalState(t *testing.T) {
	f := newFixture(t, true)
	f.coord.debounce = time.Hour
	f.remote.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, f.coord.Start(context.Background()))

	var statuses []schema.SyncStatus
	var mu sync.Mutex
	f.coord.OnStatus(func(s schema.SyncStatus) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, s)
	})

	boom := errors.New("connection refused")
	f.remote.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(boom).Once()
	_, err := f.planner.Add(fields("survives"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.coord.Flush(context.Background()), boom)
	assert.Equal(t, schema.StatusError, f.coord.Status())
	assert.Len(t, f.planner.Tasks(), 1)

	// The next change retries.
	f.remote.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	_, err = f.planner.Add(fields("retry"))
	require.NoError(t, err)
	require.NoError(t, f.coord.Flush(context.Background()))
	assert.Equal(t, schema.StatusSynced, f.coord.Status())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []schema.SyncStatus{
		schema.StatusSaving, schema.StatusError, schema.StatusSaving, schema.StatusSynced,
	}, statuses)
}

func TestStartFailureSetsError(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, iocache.SaveRecoveryCode(f.local, "ABCD2345"))
	f.remote.On("Fetch", mock.Anything, "ABCD2345").Return(schema.Snapshot{}, errors.New("timeout")).Once()
	_, err := f.planner.Add(fields("local"))
	require.NoError(t, err)

	assert.Error(t, f.coord.Start(context.Background()))
	assert.Equal(t, schema.StatusError, f.coord.Status())
	assert.Len(t, f.planner.Tasks(), 1)
}

func TestRestore(t *testing.T) {
	t.Run("invalid code never reaches the remote", func(t *testing.T) {
		f := newFixture(t, true)
		for _, input := range []string{"", "ABC", "ABCD23456", "!!!!!!!!"} {
			assert.ErrorIs(t, f.coord.Restore(context.Background(), input), ErrInvalidCode, "input %q", input)
		}
		f.remote.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})

	t.Run("unknown code leaves state untouched", func(t *testing.T) {
		f := newFixture(t, true)
		f.remote.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		require.NoError(t, f.coord.Start(context.Background()))
		before := f.coord.Code()
		_, err := f.planner.Add(fields("mine"))
		require.NoError(t, err)

		f.remote.On("Fetch", mock.Anything, "WXYZ6789").Return(schema.Snapshot{}, contract.ErrRecordNotFound).Once()
		err = f.coord.Restore(context.Background(), "wxyz-6789")
		assert.ErrorIs(t, err, ErrNoDataForCode)
		assert.Equal(t, before, f.coord.Code())
		require.Len(t, f.planner.Tasks(), 1)
		assert.Equal(t, "mine", f.planner.Tasks()[0].Title)
	})

	t.Run("known code overwrites and adopts", func(t *testing.T) {
		f := newFixture(t, true)
		f.remote.On("Fetch", mock.Anything, "WXYZ6789").Return(remoteSnapshot("restored"), nil).Once()

		require.NoError(t, f.coord.Restore(context.Background(), " wxyz 6789 "))
		assert.Equal(t, "WXYZ6789", f.coord.Code())
		assert.Equal(t, schema.StatusSynced, f.coord.Status())
		require.Len(t, f.planner.Tasks(), 1)
		assert.Equal(t, "restored", f.planner.Tasks()[0].Title)

		stored, err := iocache.LoadRecoveryCode(f.local)
		require.NoError(t, err)
		assert.Equal(t, "WXYZ6789", stored)
		f.remote.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("remote failure reports error", func(t *testing.T) {
		f := newFixture(t, true)
		f.remote.On("Fetch", mock.Anything, "WXYZ6789").Return(schema.Snapshot{}, errors.New("down")).Once()

		err := f.coord.Restore(context.Background(), "WXYZ6789")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoDataForCode)
		assert.Equal(t, schema.StatusError, f.coord.Status())
	})
}

func TestReportIncludesRemoteStatus(t *testing.T) {
	f := newFixture(t, true)
	f.remote.On("GetStatus").Return(schema.RemoteStatus{Backend: "sqlite", Connected: true, TotalRecords: 2}, nil).Once()

	report := f.coord.Report(schema.SQLiteBackend)
	assert.Equal(t, "sqlite", report.Backend)
	assert.Equal(t, schema.StatusIdle, report.Status)
	require.NotNil(t, report.Remote)
	assert.Equal(t, 2, report.Remote.TotalRecords)
}
