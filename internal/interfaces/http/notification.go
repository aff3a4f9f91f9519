package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/notification"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// NotificationHandler serves device registration, notification
// preferences and the notification feed.
type NotificationHandler struct {
	notificationService *notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type RegisterDeviceRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

type UnregisterDeviceRequest struct {
	Token string `json:"token"`
}

// NotificationListResponse is a page of the user's notification feed.
type NotificationListResponse struct {
	Notifications []*notification.Notification `json:"notifications"`
	Total         int                          `json:"total"`
	Page          int                          `json:"page"`
	PerPage       int                          `json:"per_page"`
}

// HandleDevices registers (POST) or unregisters (DELETE) a push device
// token.
func (h *NotificationHandler) HandleDevices(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleRegisterDevice(w, r, userID)
	case http.MethodDelete:
		h.handleUnregisterDevice(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *NotificationHandler) handleRegisterDevice(w http.ResponseWriter, r *http.Request, userID int64) {
	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.notificationService.RegisterDevice(r.Context(), notification.RegisterDeviceParams{
		UserID:     userID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
	if err != nil {
		switch err {
		case notification.ErrInvalidToken, notification.ErrInvalidDeviceType:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to register device")
			http.Error(w, "Failed to register device", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(token)
}

func (h *NotificationHandler) handleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	var req UnregisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "Device token is required", http.StatusBadRequest)
		return
	}

	if err := h.notificationService.UnregisterDevice(r.Context(), req.Token); err != nil {
		switch err {
		case notification.ErrDeviceTokenNotFound:
			http.Error(w, "Device token not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Msg("failed to unregister device")
			http.Error(w, "Failed to unregister device", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePreferences reads (GET) or updates (PUT) the per-category
// notification switches. Users start with everything enabled.
func (h *NotificationHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		prefs, err := h.notificationService.GetPreferences(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to load notification preferences")
			http.Error(w, "Failed to load preferences", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prefs)
	case http.MethodPut, http.MethodPatch:
		var params notification.UpdatePreferencesParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		prefs, err := h.notificationService.UpdatePreferences(r.Context(), userID, params)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to update notification preferences")
			http.Error(w, "Failed to update preferences", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prefs)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleNotifications lists the user's notification feed, newest first.
// Accepts ?page= and ?per_page=.
func (h *NotificationHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page := intParam(r, "page", 1)
	perPage := intParam(r, "per_page", 20)

	notifications, total, err := h.notificationService.ListNotifications(r.Context(), userID, page, perPage)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list notifications")
		http.Error(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}

	if notifications == nil {
		notifications = []*notification.Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		PerPage:       perPage,
	})
}

// HandleOpened marks a notification as opened. Marking twice is a 404:
// the update only matches unopened rows.
func (h *NotificationHandler) HandleOpened(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notificationID := r.PathValue("id")
	if notificationID == "" {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	if err := h.notificationService.MarkNotificationOpened(r.Context(), notificationID, userID); err != nil {
		switch err {
		case notification.ErrNotificationNotFound:
			http.Error(w, "Notification not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Str("notification_id", notificationID).Msg("failed to mark notification opened")
			http.Error(w, "Failed to mark notification opened", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
