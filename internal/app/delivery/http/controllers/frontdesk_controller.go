package controllers

import (
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type FrontDeskController struct {
	Log              *zap.Logger
	FrontDeskUsecase contracts.FrontDeskUsecase
}

var (
	frontDeskControllerInstance *FrontDeskController
	onceFrontDeskController     sync.Once
)

func NewFrontDeskController(logger *zap.Logger, frontDeskUsecase contracts.FrontDeskUsecase) *FrontDeskController {
	onceFrontDeskController.Do(func() {
		frontDeskControllerInstance = &FrontDeskController{
			Log:              logger,
			FrontDeskUsecase: frontDeskUsecase,
		}
	})
	return frontDeskControllerInstance
}

func (ctrl *FrontDeskController) TodayAppointments(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	date := r.URL.Query().Get(constvars.URLQueryParamDate)

	result, err := ctrl.FrontDeskUsecase.TodayAppointments(r.Context(), date)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FrontDeskController.TodayAppointments", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTodayAppointmentsSuccessMessage, result)
}

func (ctrl *FrontDeskController) CheckIn(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	appointmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAppointmentID)
	if !ok {
		return
	}

	request := new(requests.CheckIn)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("FrontDeskController.CheckIn called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	result, err := ctrl.FrontDeskUsecase.CheckIn(r.Context(), appointmentID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FrontDeskController.CheckIn", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckInSuccessMessage, result)
}

func (ctrl *FrontDeskController) DailyStats(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	date := r.URL.Query().Get(constvars.URLQueryParamDate)

	result, err := ctrl.FrontDeskUsecase.DailyStats(r.Context(), date)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FrontDeskController.DailyStats", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDailyStatsSuccessMessage, result)
}

func (ctrl *FrontDeskController) Dashboard(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	date := r.URL.Query().Get(constvars.URLQueryParamDate)

	result, err := ctrl.FrontDeskUsecase.Dashboard(r.Context(), date)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FrontDeskController.Dashboard", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetFrontDeskDashboardSuccessMessage, result)
}
