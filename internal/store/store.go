package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"securerisk/internal/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDuplicateUsername = errors.New("username already taken")
)

// Open connects to postgres when a DSN is given, otherwise to the
// single-file sqlite store. Sqlite runs in WAL mode with synchronous
// commits so an acknowledged write survives a process kill.
func Open(pgDSN, sqlitePath string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if pgDSN != "" {
		return gorm.Open(postgres.Open(pgDSN), cfg)
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000", sqlitePath)
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// Migrate creates or extends the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Risk{}, &models.AuditLog{})
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListRisks returns all risks, newest first. An empty store yields an
// empty slice, not nil, so the HTTP layer serializes a JSON array.
func (s *Store) ListRisks() ([]models.Risk, error) {
	risks := make([]models.Risk, 0)
	if err := s.db.Order("created_at desc").Find(&risks).Error; err != nil {
		return nil, err
	}
	return risks, nil
}

func (s *Store) GetRisk(id string) (models.Risk, error) {
	var r models.Risk
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Risk{}, ErrNotFound
		}
		return models.Risk{}, err
	}
	return r, nil
}

func (s *Store) InsertRisk(r *models.Risk) error {
	if err := s.db.Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// RiskPatch carries the fields a partial update may change. Nil means
// "leave as is". Score, level and timestamps are never patchable.
type RiskPatch struct {
	Title         *string
	Asset         *string
	Threat        *string
	Vulnerability *string
	Likelihood    *int
	Impact        *int
	Owner         *string
	Status        *models.Status
	TreatmentPlan *string
}

// UpdateRisk applies a patch to an existing risk, recomputes the
// derived score/level and stamps updatedAt. The creation time is never
// touched.
func (s *Store) UpdateRisk(id string, p RiskPatch) (models.Risk, error) {
	r, err := s.GetRisk(id)
	if err != nil {
		return models.Risk{}, err
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Asset != nil {
		r.Asset = *p.Asset
	}
	if p.Threat != nil {
		r.Threat = *p.Threat
	}
	if p.Vulnerability != nil {
		r.Vulnerability = *p.Vulnerability
	}
	if p.Likelihood != nil {
		r.Likelihood = *p.Likelihood
	}
	if p.Impact != nil {
		r.Impact = *p.Impact
	}
	if p.Owner != nil {
		r.Owner = *p.Owner
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.TreatmentPlan != nil {
		r.TreatmentPlan = *p.TreatmentPlan
	}
	r.Recompute()
	r.UpdatedAt = time.Now().UTC()
	if err := s.db.Save(&r).Error; err != nil {
		return models.Risk{}, err
	}
	return r, nil
}

// DeleteRisk removes a risk. Deleting an id that is already gone is
// not an error; the observed contract is idempotent success.
func (s *Store) DeleteRisk(id string) error {
	return s.db.Delete(&models.Risk{}, "id = ?", id).Error
}

// RiskStats re-reads the register and aggregates it. The dataset is a
// single team's register; one pass is cheaper than four queries.
func (s *Store) RiskStats() (models.RiskStatistics, error) {
	risks, err := s.ListRisks()
	if err != nil {
		return models.RiskStatistics{}, err
	}
	stats := models.RiskStatistics{
		ByLevel:  make(map[models.Level]int),
		ByStatus: make(map[models.Status]int),
	}
	sum := 0
	for _, r := range risks {
		stats.Total++
		if r.Status == models.StatusOpen {
			stats.Open++
		}
		stats.ByLevel[r.Level]++
		stats.ByStatus[r.Status]++
		sum += r.Score
	}
	if stats.Total > 0 {
		stats.AverageScore = float64(sum) / float64(stats.Total)
	}
	return stats, nil
}

// InsertUser creates an account. A username collision surfaces as
// ErrDuplicateUsername and leaves no partial row behind.
func (s *Store) InsertUser(username, passwordHash string, role models.Role) (models.User, error) {
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) FindUserByUsername(username string) (models.User, error) {
	var u models.User
	if err := s.db.First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) CountUsersByRole(role models.Role) (int64, error) {
	var n int64
	err := s.db.Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
