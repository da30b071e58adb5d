package rest

import (
	"net/http"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/bwise1/travel_planner_api/util"
	"github.com/bwise1/travel_planner_api/util/tracing"
	"github.com/bwise1/travel_planner_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) GroupRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		r.Method(http.MethodPost, "/", Handler(api.CreateGroup))
		// ?member=me, ?status=public|private, ?limit=, ?skip=
		r.Method(http.MethodGet, "/", Handler(api.ListGroups))
		r.Method(http.MethodGet, "/{groupID}", Handler(api.GetGroup))
		r.Method(http.MethodPost, "/{groupID}/join", Handler(api.JoinGroup))
		r.Method(http.MethodPost, "/{groupID}/cancel", Handler(api.CancelGroup))
		r.Method(http.MethodPut, "/{groupID}/settings", Handler(api.UpdateGroupSettings))

		r.Method(http.MethodPost, "/{groupID}/members", Handler(api.AddGroupMember))
		r.Method(http.MethodPost, "/{groupID}/organizers", Handler(api.AddOrganizer))
		r.Method(http.MethodDelete, "/{groupID}/organizers/{userID}", Handler(api.RemoveOrganizer))

		r.Method(http.MethodGet, "/{groupID}/expenses", Handler(api.GetGroupExpenses))
		r.Method(http.MethodPost, "/{groupID}/expenses", Handler(api.AddGroupExpense))
		r.Method(http.MethodPut, "/{groupID}/expenses/{expenseID}", Handler(api.ApproveGroupExpense))

		r.Method(http.MethodPost, "/{groupID}/attendance", Handler(api.CreateAttendanceCheck))
		r.Method(http.MethodPost, "/{groupID}/attendance/{attendanceID}/mark", Handler(api.MarkAttendance))
		r.Method(http.MethodPost, "/{groupID}/attendance/{attendanceID}/close", Handler(api.CloseAttendanceCheck))
		r.Method(http.MethodGet, "/{groupID}/attendance/{attendanceID}/report", Handler(api.GetAttendanceReport))

		r.Method(http.MethodGet, "/{groupID}/sos", Handler(api.GetActiveSOS))
		r.Method(http.MethodPost, "/{groupID}/sos", Handler(api.CreateSOS))
		r.Method(http.MethodPost, "/{groupID}/sos/{sosID}/respond", Handler(api.RespondToSOS))

		r.Method(http.MethodGet, "/{groupID}/announcements", Handler(api.GetGroupAnnouncements))
		r.Method(http.MethodPost, "/{groupID}/announcements", Handler(api.CreateAnnouncement))
		r.Method(http.MethodPost, "/{groupID}/announcements/{announcementID}/read", Handler(api.MarkAnnouncementAsRead))

		r.Method(http.MethodGet, "/{groupID}/dashboard", Handler(api.GetGroupDashboard))
		r.Method(http.MethodGet, "/{groupID}/statistics", Handler(api.GetGroupStatistics))
	})

	return mux
}

func (api *API) CreateGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.CreateGroupRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	group, err := api.Deps.Groups.CreateGroup(r.Context(), userID, req)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Created, "Group created successfully", group)
}

func (api *API) ListGroups(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	filter, err := listFilter(r, userID)
	if err != nil {
		return respondWithError(err, "invalid query parameters", values.BadRequestBody, &tc)
	}

	groups, err := api.Deps.Groups.ListGroups(r.Context(), filter)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Groups returned successfully", groups)
}

func (api *API) GetGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	group, err := api.Deps.Groups.GetGroup(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Group returned successfully", group)
}

func (api *API) JoinGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	group, err := api.Deps.Groups.JoinGroup(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Joined group successfully", group)
}

func (api *API) CancelGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	group, err := api.Deps.Groups.CancelGroup(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Left group successfully", group)
}

func (api *API) UpdateGroupSettings(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.UpdateGroupSettingsRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	group, err := api.Deps.Groups.UpdateSettings(r.Context(), groupID, userID, req)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Settings updated successfully", group.Settings)
}

// AddGroupMember lets an organizer add a user without a join request.
func (api *API) AddGroupMember(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.OrganizerRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}
	target, err := util.ParseObjectID(req.UserID)
	if err != nil {
		return respondWithError(err, "invalid user id", values.BadRequestBody, &tc)
	}

	group, err := api.Deps.Groups.AddMember(r.Context(), groupID, userID, target)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Member added successfully", group)
}

func (api *API) AddOrganizer(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.OrganizerRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}
	target, err := util.ParseObjectID(req.UserID)
	if err != nil {
		return respondWithError(err, "invalid user id", values.BadRequestBody, &tc)
	}

	group, err := api.Deps.Groups.AddOrganizer(r.Context(), groupID, userID, target)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Organizer added successfully", group.Organizers)
}

func (api *API) RemoveOrganizer(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	target, err := pathObjectID(r, "userID")
	if err != nil {
		return respondWithError(err, "invalid user id", values.BadRequestBody, &tc)
	}

	group, err := api.Deps.Groups.RemoveOrganizer(r.Context(), groupID, userID, target)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Organizer removed successfully", group.Organizers)
}

func (api *API) AddGroupExpense(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.GroupExpenseRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	expense, err := api.Deps.Groups.AddGroupExpense(r.Context(), groupID, userID, req)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Created, "Expense added successfully", expense)
}

func (api *API) GetGroupExpenses(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	ledger, err := api.Deps.Groups.GetGroupExpenses(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Expenses returned successfully", ledger)
}

func (api *API) ApproveGroupExpense(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.ExpenseActionRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	expense, err := api.Deps.Groups.ApproveExpense(r.Context(), groupID, userID, chi.URLParam(r, "expenseID"), req.Action)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Expense "+expense.Status, expense)
}

func (api *API) CreateAttendanceCheck(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.AttendanceCheckRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	check, err := api.Deps.Groups.CreateAttendanceCheck(r.Context(), groupID, userID, req)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Created, "Attendance check created successfully", check)
}

func (api *API) MarkAttendance(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.MarkAttendanceRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	resp, err := api.Deps.Groups.MarkAttendance(r.Context(), groupID, userID, chi.URLParam(r, "attendanceID"), req.Status)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Attendance marked successfully", resp)
}

func (api *API) CloseAttendanceCheck(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	check, err := api.Deps.Groups.CloseAttendanceCheck(r.Context(), groupID, userID, chi.URLParam(r, "attendanceID"))
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Attendance check closed", check)
}

func (api *API) GetAttendanceReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	report, err := api.Deps.Groups.GetAttendanceReport(r.Context(), groupID, userID, chi.URLParam(r, "attendanceID"))
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Attendance report returned successfully", report)
}

func (api *API) CreateSOS(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.SOSRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	alert, err := api.Deps.Groups.CreateSOS(r.Context(), groupID, userID, req)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Created, "SOS alert raised", alert)
}

func (api *API) GetActiveSOS(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	alerts, err := api.Deps.Groups.GetActiveSOS(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Active SOS alerts returned successfully", alerts)
}

func (api *API) RespondToSOS(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.SOSRespondRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	alert, err := api.Deps.Groups.RespondToSOS(r.Context(), groupID, userID, chi.URLParam(r, "sosID"), req.Response)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Response recorded", alert)
}

func (api *API) CreateAnnouncement(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.AnnouncementRequest
	if errResp := decodeAndValidate(r, &tc, &req); errResp != nil {
		return errResp
	}

	announcement, err := api.Deps.Groups.CreateAnnouncement(r.Context(), groupID, userID, req)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Created, "Announcement created successfully", announcement)
}

func (api *API) GetGroupAnnouncements(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	feed, err := api.Deps.Groups.GetGroupAnnouncements(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Announcements returned successfully", feed)
}

func (api *API) MarkAnnouncementAsRead(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	err := api.Deps.Groups.MarkAnnouncementAsRead(r.Context(), groupID, userID, chi.URLParam(r, "announcementID"))
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Announcement marked as read", nil)
}

func (api *API) GetGroupDashboard(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	dashboard, err := api.Deps.Groups.GetDashboard(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Dashboard returned successfully", dashboard)
}

func (api *API) GetGroupStatistics(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())
	groupID, userID, errResp := groupActor(r, &tc)
	if errResp != nil {
		return errResp
	}

	stats, err := api.Deps.Groups.GetStatistics(r.Context(), groupID, userID)
	if err != nil {
		return groupError(err, &tc)
	}
	return respond(values.Success, "Statistics returned successfully", stats)
}
