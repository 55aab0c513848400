package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khuan/tripmate/internal/models"
)

// ListProfiles retrieves all trip members.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.query(ctx,
		"SELECT id, nickname, english_name, color_pref FROM profiles ORDER BY nickname")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// ListMeasurements retrieves all measurements joined with each member's
// profile fields.
func (s *Store) ListMeasurements(ctx context.Context) ([]models.Measurement, error) {
	rows, err := s.query(ctx,
		`SELECT m.id, m.profile_id, m.height, m.waist, m.hip, m.foot_length,
		        m.leg_length, m.arm_length, m.notes,
		        p.id, p.nickname, p.english_name, p.color_pref
		 FROM measurements m
		 JOIN profiles p ON p.id = m.profile_id
		 ORDER BY p.nickname`)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	var measurements []models.Measurement
	for rows.Next() {
		var m models.Measurement
		var p models.Profile
		var colorPref sql.NullString

		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Height, &m.Waist, &m.Hip,
			&m.FootLength, &m.LegLength, &m.ArmLength, &m.Notes,
			&p.ID, &p.Nickname, &p.EnglishName, &colorPref); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		if colorPref.Valid {
			p.ColorPref = colorPref.String
		}
		m.Profile = &p
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate measurements: %w", err)
	}
	return measurements, nil
}

// UpdateMeasurement replaces the six sizing fields and notes of one row in
// a single write.
func (s *Store) UpdateMeasurement(ctx context.Context, m models.Measurement) error {
	return s.execOne(ctx, "update measurement", m.ID,
		`UPDATE measurements
		 SET height = ?, waist = ?, hip = ?, foot_length = ?, leg_length = ?,
		     arm_length = ?, notes = ?
		 WHERE id = ?`,
		m.Height, m.Waist, m.Hip, m.FootLength, m.LegLength, m.ArmLength, m.Notes, m.ID,
	)
}

func scanProfile(rows *sql.Rows) (models.Profile, error) {
	var p models.Profile
	var colorPref sql.NullString
	if err := rows.Scan(&p.ID, &p.Nickname, &p.EnglishName, &colorPref); err != nil {
		return models.Profile{}, fmt.Errorf("failed to scan profile: %w", err)
	}
	if colorPref.Valid {
		p.ColorPref = colorPref.String
	}
	return p, nil
}
