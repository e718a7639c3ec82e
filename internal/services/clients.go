package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lojf/clientbook/internal/metrics"
	"github.com/lojf/clientbook/internal/models"
)

// ClientInput is the raw form submission for add and edit.
type ClientInput struct {
	Name  string
	Email string
	Phone string
}

// Clients owns every read and write of the clients table.
type Clients struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
}

func NewClients(db *gorm.DB, log *zap.SugaredLogger, m *metrics.Metrics) *Clients {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Clients{db: db, log: log, metrics: m}
}

// Normalize applies the storage rules to a submission without touching the database.
func Normalize(in ClientInput) (models.Client, error) {
	c := models.Client{
		Name:  NormName(in.Name),
		Email: NormEmail(in.Email),
		Phone: NormPhone(in.Phone),
	}
	if err := validateCandidate(candidate{
		Name:  c.Name,
		Email: c.EmailOrEmpty(),
		Phone: c.PhoneOrEmpty(),
	}); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// Add creates a client after the duplicate checks pass.
func (s *Clients) Add(ctx context.Context, in ClientInput) (*models.Client, error) {
	c, err := Normalize(in)
	if err != nil {
		s.count("add", err)
		return nil, err
	}
	if err := s.checkUnique(ctx, &c, 0); err != nil {
		s.count("add", err)
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		err = translateWriteError(err, &c)
		s.count("add", err)
		return nil, err
	}
	s.count("add", nil)
	s.log.Infow("client added", "id", c.ID, "name", c.Name)
	return &c, nil
}

// Edit replaces name, email and phone of client id. Uniqueness is checked
// against every other client, so saving a record unchanged always succeeds.
func (s *Clients) Edit(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		s.count("edit", err)
		return nil, err
	}
	next, err := Normalize(in)
	if err != nil {
		s.count("edit", err)
		return nil, err
	}
	if err := s.checkUnique(ctx, &next, current.ID); err != nil {
		s.count("edit", err)
		return nil, err
	}

	current.Name = next.Name
	current.Email = next.Email
	current.Phone = next.Phone
	if err := s.db.WithContext(ctx).Save(current).Error; err != nil {
		err = translateWriteError(err, current)
		s.count("edit", err)
		return nil, err
	}
	s.count("edit", nil)
	s.log.Infow("client updated", "id", current.ID, "name", current.Name)
	return current, nil
}

// Remove deletes client id and returns what was deleted.
func (s *Clients) Remove(ctx context.Context, id uint) (*models.Client, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		s.count("remove", err)
		return nil, err
	}
	res := s.db.WithContext(ctx).Delete(&models.Client{}, c.ID)
	if res.Error != nil {
		s.count("remove", res.Error)
		return nil, fmt.Errorf("delete client %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// removed by someone else between the read and the delete
		s.count("remove", ErrNotFound)
		return nil, ErrNotFound
	}
	s.count("remove", nil)
	s.log.Infow("client removed", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Clients) Get(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load client %d: %w", id, err)
	}
	return &c, nil
}

// List returns every client in storage order.
func (s *Clients) List(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

// Search returns clients whose name, email or phone contains term,
// ignoring case. An empty term matches everything.
func (s *Clients) Search(ctx context.Context, term string) ([]models.Client, error) {
	like := likePattern(strings.ToLower(strings.TrimSpace(term)))
	var out []models.Client
	err := s.db.WithContext(ctx).
		Where(`name_key LIKE ? ESCAPE '\' OR email_key LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\'`, like, like, like).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	s.log.Debugw("client search", "term", term, "hits", len(out))
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// checkUnique looks for another client holding c's name or email.
// exclude is the id of the client being edited, 0 on add.
func (s *Clients) checkUnique(ctx context.Context, c *models.Client, exclude uint) error {
	taken, err := s.taken(ctx, "name_key", NameKey(c.Name), exclude)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Field: FieldName, Value: c.Name}
	}
	if c.Email == nil {
		return nil
	}
	taken, err = s.taken(ctx, "email_key", EmailKey(*c.Email), exclude)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Field: FieldEmail, Value: *c.Email}
	}
	return nil
}

func (s *Clients) taken(ctx context.Context, column, key string, exclude uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Client{}).Where(column+" = ?", key)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return n > 0, nil
}

// translateWriteError turns a unique-index violation into a ConflictError.
// Two concurrent submissions can both pass checkUnique; the index decides.
func translateWriteError(err error, c *models.Client) error {
	le := strings.ToLower(err.Error())
	if strings.Contains(le, "unique") {
		switch {
		case strings.Contains(le, "email_key"):
			return &ConflictError{Field: FieldEmail, Value: c.EmailOrEmpty()}
		case strings.Contains(le, "name_key"):
			return &ConflictError{Field: FieldName, Value: c.Name}
		}
	}
	return fmt.Errorf("save client: %w", err)
}

func (s *Clients) count(op string, err error) {
	var ve *ValidationError
	switch {
	case err == nil:
		s.metrics.Operation(op, metrics.ResultOK)
	case IsConflict(err):
		s.metrics.Operation(op, metrics.ResultConflict)
	case errors.As(err, &ve):
		s.metrics.Operation(op, metrics.ResultInvalid)
	case errors.Is(err, ErrNotFound):
		s.metrics.Operation(op, metrics.ResultNotFound)
	default:
		s.metrics.Operation(op, metrics.ResultError)
		s.log.Errorw("client operation failed", "op", op, "err", err)
	}
}
