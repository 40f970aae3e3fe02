package controllers

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	healthStatusUp      = "up"
	healthStatusDown    = "down"
	healthStatusHealthy = "healthy"
	healthCheckTimeout  = 5 * time.Second
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// JobRunner is a background worker that can be triggered by hand.
type JobRunner interface {
	RunOnce(ctx context.Context)
}

type OpsController struct {
	Log               *zap.Logger
	Checks            map[string]HealthCheck
	AssessmentUsecase contracts.AssessmentUsecase
	SubmissionWorker  JobRunner
}

var (
	opsControllerInstance *OpsController
	onceOpsController     sync.Once
)

func NewOpsController(logger *zap.Logger, checks map[string]HealthCheck, assessmentUsecase contracts.AssessmentUsecase, submissionWorker JobRunner) *OpsController {
	onceOpsController.Do(func() {
		opsControllerInstance = &OpsController{
			Log:               logger,
			Checks:            checks,
			AssessmentUsecase: assessmentUsecase,
			SubmissionWorker:  submissionWorker,
		}
	})
	return opsControllerInstance
}

// Liveness answers without touching any dependency.
func (ctrl *OpsController) Liveness(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, &responses.HealthCheck{
		Status: healthStatusHealthy,
	})
}

// Readiness pings every dependency concurrently and answers 503 when any is down.
func (ctrl *OpsController) Readiness(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var mu sync.Mutex
	report := &responses.HealthCheck{
		Status:       healthStatusHealthy,
		Dependencies: make(map[string]string, len(ctrl.Checks)),
	}
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	for name, check := range ctrl.Checks {
		name, check := name, check
		g.Go(func() error {
			status := healthStatusUp
			if err := check(gctx); err != nil {
				status = healthStatusDown
				ctrl.Log.Warn("OpsController.Readiness dependency down",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String("dependency", name),
					zap.Error(err),
				)
			}
			mu.Lock()
			report.Dependencies[name] = status
			if status == healthStatusDown {
				failed = append(failed, name)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		report.Status = healthStatusDown
		err := exceptions.ErrDependencyUnavailable(fmt.Errorf("unhealthy: %v", failed)).WithDetails(report)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, report)
}

// FlushAutosave saves every idle dirty session now instead of waiting for the
// next cron tick.
func (ctrl *OpsController) FlushAutosave(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("OpsController.FlushAutosave called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	saved, err := ctrl.AssessmentUsecase.FlushIdleSessions(r.Context())
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "OpsController.FlushAutosave", err)
		return
	}

	ctrl.Log.Info("OpsController.FlushAutosave succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSessionCountKey, saved),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FlushAutosaveSuccessMessage, map[string]int{"saved": saved})
}

// DrainSubmissions runs one pass of the submission worker.
func (ctrl *OpsController) DrainSubmissions(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("OpsController.DrainSubmissions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ctrl.SubmissionWorker.RunOnce(r.Context())
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.DrainSubmissionsSuccessMessage, nil)
}
