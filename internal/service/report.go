package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
)

const (
	dateLayout      = "2006-01-02"
	csvTimeLayout   = "2006-01-02 15:04:05"
	recentIncidents = 5
)

type Stats struct {
	TotalIncidents      int64             `json:"total_incidents"`
	PendingIncidents    int64             `json:"pending_incidents"`
	InProgressIncidents int64             `json:"in_progress_incidents"`
	ResolvedIncidents   int64             `json:"resolved_incidents"`
	RejectedIncidents   int64             `json:"rejected_incidents"`
	TotalUsers          int64             `json:"total_users"`
	AdminUsers          int64             `json:"admin_users"`
	RecentIncidents     []models.Incident `json:"recent_incidents"`
	IncidentsLastWeek   int64             `json:"incidents_last_week"`
	UsersLastMonth      int64             `json:"users_last_month"`
}

// Stats builds the dashboard summary. Legacy statuses are folded into their
// current equivalents.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		st  Stats
		err error
	)
	now := s.now()

	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&st.TotalIncidents, func() (int64, error) { return s.Repo.CountIncidents(ctx) }},
		{&st.PendingIncidents, func() (int64, error) {
			return s.Repo.CountIncidentsByStatus(ctx, models.StatusSubmitted, models.StatusPending)
		}},
		{&st.InProgressIncidents, func() (int64, error) {
			return s.Repo.CountIncidentsByStatus(ctx, models.StatusUnderProcess, models.StatusInProgress)
		}},
		{&st.ResolvedIncidents, func() (int64, error) { return s.Repo.CountIncidentsByStatus(ctx, models.StatusResolved) }},
		{&st.RejectedIncidents, func() (int64, error) { return s.Repo.CountIncidentsByStatus(ctx, models.StatusRejected) }},
		{&st.TotalUsers, func() (int64, error) { return s.Repo.CountUsers(ctx) }},
		{&st.AdminUsers, func() (int64, error) { return s.Repo.CountAdmins(ctx) }},
		{&st.IncidentsLastWeek, func() (int64, error) { return s.Repo.CountIncidentsSince(ctx, now.AddDate(0, 0, -7)) }},
		{&st.UsersLastMonth, func() (int64, error) { return s.Repo.CountUsersSince(ctx, now.AddDate(0, 0, -30)) }},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	if st.RecentIncidents, err = s.Repo.RecentIncidents(ctx, recentIncidents); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &st, nil
}

// ReportFilter parses the report query. Dates are YYYY-MM-DD in UTC and
// toDate includes the whole day.
func ReportFilter(status, fromDate, toDate string) (repo.IncidentFilter, error) {
	f := repo.IncidentFilter{Status: status}
	if fromDate != "" {
		from, err := time.Parse(dateLayout, fromDate)
		if err != nil {
			return f, fmt.Errorf("from_date must be YYYY-MM-DD: %w", ErrValidation)
		}
		f.From = from
	}
	if toDate != "" {
		to, err := time.Parse(dateLayout, toDate)
		if err != nil {
			return f, fmt.Errorf("to_date must be YYYY-MM-DD: %w", ErrValidation)
		}
		f.To = to.AddDate(0, 0, 1)
	}
	return f, nil
}

type Report struct {
	TotalIncidents int               `json:"total_incidents"`
	ByStatus       map[string]int    `json:"by_status"`
	Incidents      []models.Incident `json:"incidents"`
}

func (s *AdminService) Report(ctx context.Context, f repo.IncidentFilter) (*Report, error) {
	items, err := s.Repo.ListIncidents(ctx, f)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(models.Statuses))
	for _, st := range models.Statuses {
		byStatus[st] = 0
	}
	for _, inc := range items {
		if _, ok := byStatus[inc.Status]; ok {
			byStatus[inc.Status]++
		}
	}

	return &Report{
		TotalIncidents: len(items),
		ByStatus:       byStatus,
		Incidents:      items,
	}, nil
}

var csvHeader = []string{
	"ID", "User ID", "Title", "Description", "Latitude", "Longitude",
	"Status", "Admin Remarks", "Created At", "Updated At",
}

func WriteIncidentsCSV(w io.Writer, items []models.Incident) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, inc := range items {
		remarks := ""
		if inc.AdminRemarks != nil {
			remarks = *inc.AdminRemarks
		}
		row := []string{
			strconv.FormatUint(uint64(inc.ID), 10),
			strconv.FormatUint(uint64(inc.UserID), 10),
			inc.Title,
			inc.Description,
			strconv.FormatFloat(inc.Latitude, 'f', -1, 64),
			strconv.FormatFloat(inc.Longitude, 'f', -1, 64),
			inc.Status,
			remarks,
			inc.CreatedAt.UTC().Format(csvTimeLayout),
			inc.UpdatedAt.UTC().Format(csvTimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV renders the filtered incidents and a timestamped file name.
func (s *AdminService) ExportCSV(ctx context.Context, f repo.IncidentFilter) ([]byte, string, error) {
	items, err := s.Repo.ListIncidents(ctx, f)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := WriteIncidentsCSV(&buf, items); err != nil {
		return nil, "", fmt.Errorf("export csv: %w", err)
	}
	name := "incidents_report_" + s.now().Format("20060102_150405") + ".csv"
	return buf.Bytes(), name, nil
}
