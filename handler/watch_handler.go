package handler

import (
	"bitbucket_v2/helper/atlassian"
	"bitbucket_v2/log"
	"bitbucket_v2/metrics"
	"bitbucket_v2/model"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// WatchHandler polls the pull requests of configured repositories and keeps
// the last result of each.
type WatchHandler struct {
	Bitbucket atlassian.Bitbucket

	mutex     sync.RWMutex
	running   map[string]bool // prevents overlapping polls of one repository
	snapshots map[string]model.PullRequestSnapshot
	scheduler gocron.Scheduler
}

func NewWatchHandler(bitbucket atlassian.Bitbucket) *WatchHandler {
	return &WatchHandler{
		Bitbucket: bitbucket,
		running:   map[string]bool{},
		snapshots: map[string]model.PullRequestSnapshot{},
	}
}

func snapshotKey(workspace, repoSlug string) string {
	return workspace + "/" + repoSlug
}

// clientFor applies per-repository credentials on top of the shared client.
func (wh *WatchHandler) clientFor(watch model.WatchRepository) atlassian.Bitbucket {
	switch {
	case watch.AccessToken != "":
		return wh.Bitbucket.AuthenticateOAuth2(watch.AccessToken)
	case watch.Username != "" && watch.AppPassword != "":
		return wh.Bitbucket.AuthenticateBasic(watch.Username, watch.AppPassword)
	}
	return wh.Bitbucket
}

// HandlerWatchRepositories schedules one cron job per watched repository and
// starts the scheduler.
func (wh *WatchHandler) HandlerWatchRepositories(watches []model.WatchRepository) error {
	log.Info("Init Watch Repositories Handler")

	s, err := gocron.NewScheduler()
	if err != nil {
		log.Errorf("Failed to create scheduler: %v", err)
		return err
	}

	for i, watch := range watches {
		log.Info("Setup Watch ", i, " ==> ", watch.Cron)
		_, err := s.NewJob(
			gocron.CronJob(watch.Cron, true),
			gocron.NewTask(func() { _ = wh.Poll(context.Background(), watch) }),
			gocron.WithName(watch.ProcessName),
		)
		if err != nil {
			log.Error(err)
		}
	}
	s.Start()
	wh.scheduler = s
	return nil
}

func (wh *WatchHandler) Shutdown() error {
	if wh.scheduler == nil {
		return nil
	}
	return wh.scheduler.Shutdown()
}

// Poll fetches every pull request of one repository and stores the snapshot.
// A poll that starts while the previous one for the same repository is still
// running is skipped.
func (wh *WatchHandler) Poll(ctx context.Context, watch model.WatchRepository) error {
	key := snapshotKey(watch.Workspace, watch.RepoSlug)

	wh.mutex.Lock()
	if wh.running[key] {
		wh.mutex.Unlock()
		log.Infof("Skipping poll - another poll is already running for %s", key)
		return nil
	}
	wh.running[key] = true
	wh.mutex.Unlock()

	defer func() {
		wh.mutex.Lock()
		delete(wh.running, key)
		wh.mutex.Unlock()
	}()

	runID := uuid.NewString()
	logger := log.WithFields(log.Fields{"runId": runID, "repository": key})
	startTime := time.Now()
	logger.Info("Start polling pull requests")

	prs, err := wh.clientFor(watch).Repositories().ListAllPullRequests(ctx, watch.Workspace, watch.RepoSlug, watch.States...)
	if err != nil {
		metrics.WatchPollSuccess.WithLabelValues(watch.Workspace, watch.RepoSlug).Set(0)
		logger.Errorf("Error fetching pull requests: %v", err)
		return fmt.Errorf("poll %s: %w", key, err)
	}

	metrics.WatchPollSuccess.WithLabelValues(watch.Workspace, watch.RepoSlug).Set(1)
	metrics.WatchPullRequests.WithLabelValues(watch.Workspace, watch.RepoSlug).Set(float64(len(prs)))

	wh.mutex.Lock()
	wh.snapshots[key] = model.PullRequestSnapshot{
		Workspace:    watch.Workspace,
		RepoSlug:     watch.RepoSlug,
		RunID:        runID,
		PolledAt:     time.Now().UTC().Format(time.RFC3339),
		PullRequests: prs,
	}
	wh.mutex.Unlock()

	logger.Infof("Fetched %d pull requests in %v", len(prs), time.Since(startTime))
	return nil
}

func (wh *WatchHandler) Snapshot(workspace, repoSlug string) (model.PullRequestSnapshot, bool) {
	wh.mutex.RLock()
	defer wh.mutex.RUnlock()
	s, ok := wh.snapshots[snapshotKey(workspace, repoSlug)]
	return s, ok
}
