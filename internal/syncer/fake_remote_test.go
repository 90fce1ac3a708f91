package syncer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/dmitrijs2005/jobkeeper/internal/remote"
)

// fakeRemote is an in-memory remote.Store recording every call. Operations
// can be made to fail or block to exercise the engine's failure and
// re-entrancy paths.
type fakeRemote struct {
	mu     sync.Mutex
	nextID int
	apps   map[string]map[string]any            // app remote id -> document
	stages map[string]map[string]map[string]any // app remote id -> stage remote id -> document
	calls  []string
	failOn map[string]error
	now    func() time.Time

	// When set, CreateApplication signals createStarted and then waits for
	// createRelease before proceeding.
	createStarted chan struct{}
	createRelease chan struct{}
}

func newFakeRemote() *fakeRemote {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return &fakeRemote{
		apps:   make(map[string]map[string]any),
		stages: make(map[string]map[string]map[string]any),
		failOn: make(map[string]error),
		now:    func() time.Time { return base },
	}
}

func (f *fakeRemote) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeRemote) countCalls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeRemote) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) seedApp(remoteID string, doc map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps[remoteID] = doc
}

func (f *fakeRemote) seedStage(appRemoteID, stageRemoteID string, doc map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stages[appRemoteID] == nil {
		f.stages[appRemoteID] = make(map[string]map[string]any)
	}
	f.stages[appRemoteID][stageRemoteID] = doc
}

func (f *fakeRemote) appCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.apps)
}

func (f *fakeRemote) hasApp(remoteID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.apps[remoteID]
	return ok
}

func (f *fakeRemote) ListApplications(_ context.Context, _ string) ([]*remote.Record, error) {
	if err := f.record("listApps"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.apps))
	for id := range f.apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var records []*remote.Record
	for _, id := range ids {
		rec := &remote.Record{Application: models.ApplicationFromDoc(id, f.apps[id], f.now())}
		stageIDs := make([]string, 0, len(f.stages[id]))
		for sid := range f.stages[id] {
			stageIDs = append(stageIDs, sid)
		}
		sort.Strings(stageIDs)
		for _, sid := range stageIDs {
			rec.Stages = append(rec.Stages, models.StageFromDoc(sid, f.stages[id][sid], f.now()))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (f *fakeRemote) CreateApplication(_ context.Context, _ string, a *models.Application) (string, error) {
	if f.createStarted != nil {
		f.createStarted <- struct{}{}
		<-f.createRelease
	}
	if err := f.record("createApp"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("remote-%d", f.nextID)
	a.UpdatedAt = f.now()
	f.apps[id] = a.ToDocument()
	return id, nil
}

func (f *fakeRemote) UpdateApplication(_ context.Context, _ string, a *models.Application) error {
	if err := f.record("updateApp"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.UpdatedAt = f.now()
	doc := f.apps[a.RemoteID]
	if doc == nil {
		doc = make(map[string]any)
		f.apps[a.RemoteID] = doc
	}
	// merge semantics: present fields overwrite, absent stay
	for k, v := range a.ToDocument() {
		doc[k] = v
	}
	return nil
}

func (f *fakeRemote) DeleteApplication(_ context.Context, _ string, remoteID string) error {
	if err := f.record("deleteApp"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.apps, remoteID)
	delete(f.stages, remoteID)
	return nil
}

func (f *fakeRemote) FindApplicationByKey(_ context.Context, _ string, key models.NaturalKey) (*remote.Record, error) {
	if err := f.record("findApp"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.apps))
	for id := range f.apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		a := models.ApplicationFromDoc(id, f.apps[id], f.now())
		k := a.NaturalKey()
		if k.Company == key.Company && k.Role == key.Role && k.Date.Equal(key.Date) {
			return &remote.Record{Application: a}, nil
		}
	}
	return nil, nil
}

func (f *fakeRemote) CreateStage(_ context.Context, _ string, appRemoteID string, s *models.Stage) (string, error) {
	if err := f.record("createStage"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("remote-stage-%d", f.nextID)
	s.UpdatedAt = f.now()
	if f.stages[appRemoteID] == nil {
		f.stages[appRemoteID] = make(map[string]map[string]any)
	}
	f.stages[appRemoteID][id] = s.ToDocument()
	return id, nil
}

func (f *fakeRemote) UpdateStage(_ context.Context, _ string, appRemoteID string, s *models.Stage) error {
	if err := f.record("updateStage"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.UpdatedAt = f.now()
	if f.stages[appRemoteID] == nil {
		f.stages[appRemoteID] = make(map[string]map[string]any)
	}
	doc := f.stages[appRemoteID][s.RemoteID]
	if doc == nil {
		doc = make(map[string]any)
		f.stages[appRemoteID][s.RemoteID] = doc
	}
	for k, v := range s.ToDocument() {
		doc[k] = v
	}
	return nil
}

func (f *fakeRemote) DeleteStage(_ context.Context, _ string, appRemoteID, stageRemoteID string) error {
	if err := f.record("deleteStage"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stages[appRemoteID] != nil {
		delete(f.stages[appRemoteID], stageRemoteID)
	}
	return nil
}
