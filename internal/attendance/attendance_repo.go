package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *AttendanceRecord) error
	FindOpenByEmployee(ctx context.Context, employeeID string) (*AttendanceRecord, error)
	Update(ctx context.Context, record *AttendanceRecord) error
	FindAllByEmployee(ctx context.Context, employeeID string) ([]AttendanceRecord, error)
	FindAll(ctx context.Context) ([]AttendanceRecord, error)
	FindAllSince(ctx context.Context, since time.Time) ([]AttendanceRecord, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, record *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindOpenByEmployee(ctx context.Context, employeeID string) (*AttendanceRecord, error) {
	var record AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("check_out IS NULL").
		Order("check_in DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Update(ctx context.Context, record *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("check_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Order("check_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllSince(ctx context.Context, since time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("check_in >= ?", since).
		Order("check_in DESC").
		Find(&rows).Error
	return rows, err
}
