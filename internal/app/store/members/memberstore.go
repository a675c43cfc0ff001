package memberstore

// Terminology: Member Identifiers
//   - ID / ObjectID: The MongoDB _id of the record, internal only
//   - MemberID / member_id: The human-readable ID members use everywhere
//     ("0001" for the shared sequence, "T001" for guests)

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubworks/clubhub/internal/app/system/memberid"
	"github.com/clubworks/clubhub/internal/app/system/normalize"
	"github.com/clubworks/clubhub/internal/domain/models"
)

var (
	// ErrNotFound is returned when no matching member exists.
	ErrNotFound = errors.New("member not found")
	// ErrDuplicateMemberID is returned when the member ID is already taken.
	// Callers allocating IDs should re-read the highest ID and retry.
	ErrDuplicateMemberID = errors.New("a member with this member ID already exists")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("a member with this email already exists")
	// ErrDuplicateMobile is returned when the mobile number is already registered.
	ErrDuplicateMobile = errors.New("a member with this mobile number already exists")

	errBadMemberType = errors.New("invalid member type")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// Create inserts a new member after normalizing fields. MemberID must
// already be allocated by the caller.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	if !models.IsValidMemberType(m.MemberType) {
		return models.Member{}, errBadMemberType
	}

	m.ID = primitive.NewObjectID()
	m.FirstName = normalize.Name(m.FirstName)
	m.LastName = normalize.Name(m.LastName)
	m.FirstNameCI = text.Fold(m.FirstName)
	m.LastNameCI = text.Fold(m.LastName)
	m.Email = normalize.Email(m.Email)
	m.Mobile = normalize.Mobile(m.Mobile)

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.JoinDate.IsZero() {
		m.JoinDate = now
	}

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, classifyDup(err)
		}
		return models.Member{}, err
	}
	return m, nil
}

// classifyDup maps a duplicate-key error to the typed sentinel for the
// offending unique index.
func classifyDup(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uniq_members_member_id"):
		return ErrDuplicateMemberID
	case strings.Contains(msg, "idx_members_email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "idx_members_mobile"):
		return ErrDuplicateMobile
	default:
		return err
	}
}

// GetByMemberID loads a member by their human-readable ID. Soft-deleted
// records are invisible here.
func (s *Store) GetByMemberID(ctx context.Context, memberID string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"member_id": memberID, "is_deleted": bson.M{"$ne": true}}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByLoginID resolves the identifier a person typed at the login
// form: member ID, mobile number, or email, in that order of intent.
// Soft-deleted members cannot log in.
func (s *Store) FindByLoginID(ctx context.Context, loginID string) (*models.Member, error) {
	loginID = strings.TrimSpace(loginID)
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{
		"is_deleted": bson.M{"$ne": true},
		"$or": []bson.M{
			{"member_id": loginID},
			{"mobile": normalize.Mobile(loginID)},
			{"email": normalize.Email(loginID)},
		},
	}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByEmail looks up a non-deleted member by normalized email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{
		"email":      normalize.Email(email),
		"is_deleted": bson.M{"$ne": true},
	}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListOptions controls List and Search.
type ListOptions struct {
	// IncludeDeleted is the retention pathway: it re-admits soft-deleted
	// and deactivated members. Admin only; the handler gates it.
	IncludeDeleted bool
	Limit          int64
	Offset         int64
}

const defaultListLimit = 50

// List returns active, non-deleted members ordered by folded last name
// then _id for a stable page order.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.Member, error) {
	return s.find(ctx, visibilityFilter(bson.M{}, opts), opts)
}

// Search matches the query as a case-insensitive substring of names
// (case-folded), member ID, address lines, email and mobile.
func (s *Store) Search(ctx context.Context, query string, opts ListOptions) ([]models.Member, error) {
	folded := text.Fold(strings.TrimSpace(query))
	if folded == "" {
		return s.List(ctx, opts)
	}
	quoted := regexQuote(folded)
	raw := regexQuote(strings.TrimSpace(query))

	filter := bson.M{
		"$or": []bson.M{
			{"first_name_ci": bson.M{"$regex": quoted}},
			{"last_name_ci": bson.M{"$regex": quoted}},
			{"member_id": bson.M{"$regex": raw, "$options": "i"}},
			{"address": bson.M{"$regex": raw, "$options": "i"}},
			{"email": bson.M{"$regex": regexQuote(normalize.Email(query))}},
			{"mobile": bson.M{"$regex": regexQuote(normalize.Mobile(query))}},
		},
	}
	return s.find(ctx, visibilityFilter(filter, opts), opts)
}

// visibilityFilter narrows a query to active, non-deleted members
// unless the retention pathway asked for everything.
func visibilityFilter(filter bson.M, opts ListOptions) bson.M {
	if !opts.IncludeDeleted {
		filter["is_deleted"] = bson.M{"$ne": true}
		filter["is_active"] = true
	}
	return filter
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ListOptions) ([]models.Member, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "last_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(opts.Offset).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update holds the editable fields of a member record. MemberID and
// the password are managed through their own operations.
type Update struct {
	MemberType         string
	Title              string
	FirstName          string
	LastName           string
	Address            []string
	Mobile             string
	Phone              string
	Email              string
	Image              []string
	Notes              string
	InvitedBy          string
	JoinDate           time.Time
	PeriodInSchoolFrom int
	PeriodInSchoolTo   int
	MemberRole         string
	IsActive           bool
}

// UpdateByMemberID replaces the editable fields of a member.
func (s *Store) UpdateByMemberID(ctx context.Context, memberID string, upd Update) error {
	if !models.IsValidMemberType(upd.MemberType) {
		return errBadMemberType
	}
	firstName := normalize.Name(upd.FirstName)
	lastName := normalize.Name(upd.LastName)
	set := bson.M{
		"member_type":           upd.MemberType,
		"title":                 upd.Title,
		"first_name":            firstName,
		"last_name":             lastName,
		"first_name_ci":         text.Fold(firstName),
		"last_name_ci":          text.Fold(lastName),
		"address":               upd.Address,
		"mobile":                normalize.Mobile(upd.Mobile),
		"phone":                 upd.Phone,
		"email":                 normalize.Email(upd.Email),
		"image":                 upd.Image,
		"notes":                 upd.Notes,
		"invited_by":            upd.InvitedBy,
		"join_date":             upd.JoinDate,
		"period_in_school_from": upd.PeriodInSchoolFrom,
		"period_in_school_to":   upd.PeriodInSchoolTo,
		"member_role":           upd.MemberRole,
		"is_active":             upd.IsActive,
		"updated_at":            time.Now(),
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"member_id": memberID, "is_deleted": bson.M{"$ne": true}},
		bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return classifyDup(err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword stores a new password hash for the member.
func (s *Store) SetPassword(ctx context.Context, memberID, hash string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"member_id": memberID, "is_deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"password": hash, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete hides a member. The record stays for the audit trail and
// the member ID stays burned; it is never reissued.
func (s *Store) SoftDelete(ctx context.Context, memberID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"member_id": memberID, "is_deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"is_deleted": true, "is_active": false, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HighestMemberID returns the numerically highest allocated ID in the
// category, including soft-deleted members so their IDs stay burned.
// Returns "" when the sequence is empty. Length sorts before value so
// a widened ID ("10000") beats the lexically larger "9999".
func (s *Store) HighestMemberID(ctx context.Context, cat memberid.Category) (string, error) {
	pattern := `^\d{4,}$`
	if cat == memberid.Guest {
		pattern = `^T\d{3,}$`
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"member_id": bson.M{"$regex": pattern}}}},
		{{Key: "$addFields", Value: bson.M{"member_id_len": bson.M{"$strLenCP": "$member_id"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "member_id_len", Value: -1}, {Key: "member_id", Value: -1}}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$project", Value: bson.M{"member_id": 1}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return "", err
	}
	defer cur.Close(ctx)

	var rows []struct {
		MemberID string `bson:"member_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].MemberID, nil
}

// regexQuote escapes regex metacharacters in a user-supplied query.
func regexQuote(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
