package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"coffee_machine/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	machineStatusRowID = 1

	insertOrUpdateStatusSQL = `
		INSERT INTO machine_status (id, power_on, main_state, menu_state, brew_stage, water_state,
			temp_c, bin0, bin1, creamer, chocolate, paper_count, progress, service_s,
			errors, line1, line2, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			power_on=excluded.power_on,
			main_state=excluded.main_state,
			menu_state=excluded.menu_state,
			brew_stage=excluded.brew_stage,
			water_state=excluded.water_state,
			temp_c=excluded.temp_c,
			bin0=excluded.bin0,
			bin1=excluded.bin1,
			creamer=excluded.creamer,
			chocolate=excluded.chocolate,
			paper_count=excluded.paper_count,
			progress=excluded.progress,
			service_s=excluded.service_s,
			errors=excluded.errors,
			line1=excluded.line1,
			line2=excluded.line2,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `
		SELECT id, power_on, main_state, menu_state, brew_stage, water_state,
			temp_c, bin0, bin1, creamer, chocolate, paper_count, progress, service_s,
			errors, line1, line2, updated_at
		FROM machine_status WHERE id=?
	`
)

// marshalErrorCodes converts the slice to a JSON string.
func marshalErrorCodes(codes []string) (string, error) {
	b, err := json.Marshal(codes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalErrorCodes parses a JSON string into a slice.
func unmarshalErrorCodes(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(s), &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Save updates or inserts the machine_status row (id always 1).
func (r *StatusSQLite) Save(ctx context.Context, st models.MachineStatus) error {
	errorsJSONStr, err := marshalErrorCodes(st.ErrorCodes)
	if err != nil {
		return err
	}

	// timestamps are persisted as UTC; set if zero
	tsUTC := st.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err = r.db.ExecContext(ctx, insertOrUpdateStatusSQL,
		machineStatusRowID,
		st.PowerOn,
		st.MainState,
		st.MenuState,
		st.BrewStage,
		st.WaterState,
		st.CurrentTempC,
		st.Bin0Level,
		st.Bin1Level,
		st.CreamerLevel,
		st.ChocolateLevel,
		st.PaperCount,
		st.BrewProgress,
		st.ServiceSeconds,
		errorsJSONStr,
		st.DisplayLine1,
		st.DisplayLine2,
		tsUTC,
	)
	return err
}

// Load fetches the single machine_status row (id=1).
func (r *StatusSQLite) Load(ctx context.Context) (models.MachineStatus, error) {
	row := r.db.QueryRowContext(ctx, selectStatusSQL, machineStatusRowID)

	var st models.MachineStatus
	var errorsJSONStr string
	if err := row.Scan(
		&st.ID,
		&st.PowerOn,
		&st.MainState,
		&st.MenuState,
		&st.BrewStage,
		&st.WaterState,
		&st.CurrentTempC,
		&st.Bin0Level,
		&st.Bin1Level,
		&st.CreamerLevel,
		&st.ChocolateLevel,
		&st.PaperCount,
		&st.BrewProgress,
		&st.ServiceSeconds,
		&errorsJSONStr,
		&st.DisplayLine1,
		&st.DisplayLine2,
		&st.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MachineStatus{}, nil // no status yet
		}
		return models.MachineStatus{}, err
	}

	codes, err := unmarshalErrorCodes(errorsJSONStr)
	if err != nil {
		return models.MachineStatus{}, err
	}
	st.ErrorCodes = codes
	st.UpdatedAt = st.UpdatedAt.UTC()

	return st, nil
}
