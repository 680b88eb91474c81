// Package wpdb implements store.Backend over the WordPress database tables.
package wpdb

import (
	"StoreImport/internal/database"
	"StoreImport/internal/database/model"
	"StoreImport/internal/phpserial"
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02 15:04:05"

// statuses hidden from StatusAny, as WP_Query does
var excludedFromAny = []string{"trash", "auto-draft"}

type Backend struct {
	db         *sqlx.DB
	tables     model.Tables
	uploadsURL string
	now        func() time.Time
}

var _ store.Backend = (*Backend)(nil)

// New returns a backend over db. uploadsURL is the base URL of the uploads
// directory used to build attachment URLs; empty falls back to the attachment guid.
func New(db *sqlx.DB, prefix, uploadsURL string) *Backend {
	return &Backend{
		db:         db,
		tables:     model.Tables{Prefix: prefix},
		uploadsURL: strings.TrimRight(uploadsURL, "/"),
		now:        time.Now,
	}
}

func (b *Backend) DB() *sqlx.DB {
	return b.db
}

func (b *Backend) Tables() model.Tables {
	return b.tables
}

func (b *Backend) FindOne(t store.RecordType, opts ...store.Option) (*store.Record, error) {
	records, err := b.FindAll(t, append(opts, store.Limit(1))...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (b *Backend) FindAll(t store.RecordType, opts ...store.Option) ([]*store.Record, error) {
	q := store.NewQuery(opts...)
	f := model.PostFilter{
		Type:      string(t),
		MetaKey:   q.MetaKey,
		MetaValue: q.MetaValue,
		HasMeta:   q.HasMeta,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Status == store.StatusAny || q.Status == "" {
		f.ExcludeStatuses = excludedFromAny
	} else {
		f.Statuses = []string{q.Status}
	}

	posts, err := model.SelectPosts(b.db, b.tables, f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed FindAll(%s)", t)
	}
	records := make([]*store.Record, 0, len(posts))
	for _, p := range posts {
		records = append(records, toRecord(p))
	}
	return records, nil
}

func (b *Backend) CreateRecord(t store.RecordType, fields store.RecordFields) (int64, error) {
	logger := logging.GetLogger()
	logger.Debugf("Start CreateRecord(%s)", t)
	defer logger.Debugf("End CreateRecord(%s)", t)

	p := &model.Post{
		Author:  fields.Author,
		Date:    fields.Date,
		Content: fields.Content,
		Title:   fields.Title,
		Excerpt: fields.Excerpt,
		Status:  fields.Status,
		Type:    string(t),
	}
	if p.Date == "" {
		p.Date = b.now().Format(dateLayout)
	}
	if p.Status == "" {
		p.Status = "draft"
	}
	if p.Status == store.StatusPublish {
		p.Name = Slugify(p.Title)
	}
	if err := p.Insert(b.db, b.tables); err != nil {
		if database.IsRowRejected(err) {
			return 0, errors.Wrap(store.ErrCreateFailed, err.Error())
		}
		return 0, errors.Wrapf(err, "failed CreateRecord(%s)", t)
	}
	return p.ID, nil
}

// SetField replaces every stored value of key with value. Scalars are stored as
// text, slices, maps and phpserial.Arrayer values PHP-serialized.
func (b *Backend) SetField(id int64, key string, value interface{}) error {
	raw, err := encodeValue(value)
	if err != nil {
		return errors.Wrapf(err, "failed encode field %s", key)
	}
	if err := model.ReplaceMeta(b.db, b.tables, id, key, raw); err != nil {
		return errors.Wrapf(err, "failed SetField(%d, %s)", id, key)
	}
	return nil
}

// AddField stores one more value of key next to the existing ones.
func (b *Backend) AddField(id int64, key string, value interface{}) error {
	raw, err := encodeValue(value)
	if err != nil {
		return errors.Wrapf(err, "failed encode field %s", key)
	}
	if err := model.AddMeta(b.db, b.tables, id, key, raw); err != nil {
		return errors.Wrapf(err, "failed AddField(%d, %s)", id, key)
	}
	return nil
}

// GetField returns the first stored value of key as raw text, "" when absent.
func (b *Backend) GetField(id int64, key string) (string, error) {
	rows, err := model.SelectMeta(b.db, b.tables, id, key)
	if err != nil {
		return "", errors.Wrapf(err, "failed GetField(%d, %s)", id, key)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Value.String, nil
}

func (b *Backend) GetFieldValues(id int64, key string) ([]store.MetaValue, error) {
	rows, err := model.SelectMeta(b.db, b.tables, id, key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed GetFieldValues(%d, %s)", id, key)
	}
	values := make([]store.MetaValue, 0, len(rows))
	for _, r := range rows {
		values = append(values, store.DecodeMeta(r.Value.String))
	}
	return values, nil
}

func (b *Backend) Fields(id int64) (map[string][]store.MetaValue, error) {
	rows, err := model.SelectMeta(b.db, b.tables, id, "")
	if err != nil {
		return nil, errors.Wrapf(err, "failed Fields(%d)", id)
	}
	fields := make(map[string][]store.MetaValue)
	for _, r := range rows {
		fields[r.Key] = append(fields[r.Key], store.DecodeMeta(r.Value.String))
	}
	return fields, nil
}

func (b *Backend) SetFeaturedImage(id, attachmentID int64) error {
	return b.SetField(id, "_thumbnail_id", attachmentID)
}

// FeaturedImage returns 0 when the record has none.
func (b *Backend) FeaturedImage(id int64) (int64, error) {
	raw, err := b.GetField(id, "_thumbnail_id")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// ResolveAttachmentURL returns false when id is not an attachment.
func (b *Backend) ResolveAttachmentURL(id int64) (string, bool, error) {
	p, err := model.SelectPost(b.db, b.tables, id)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed ResolveAttachmentURL(%d)", id)
	}
	if p == nil || p.Type != string(store.TypeAttachment) {
		return "", false, nil
	}
	file, err := b.GetField(id, "_wp_attached_file")
	if err != nil {
		return "", false, err
	}
	if file != "" && b.uploadsURL != "" {
		return b.uploadsURL + "/" + strings.TrimLeft(file, "/"), true, nil
	}
	if p.GUID == "" {
		return "", false, nil
	}
	return p.GUID, true, nil
}

func toRecord(p *model.Post) *store.Record {
	return &store.Record{
		ID:      p.ID,
		Type:    store.RecordType(p.Type),
		Title:   p.Title,
		Content: p.Content,
		Excerpt: p.Excerpt,
		Status:  p.Status,
		Author:  p.Author,
		Date:    p.Date,
		GUID:    p.GUID,
	}
}

func encodeValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		if v {
			return "1", nil
		}
		return "", nil
	case phpserial.Array, phpserial.Arrayer:
		raw, err := phpserial.Marshal(v)
		return string(raw), err
	case fmt.Stringer:
		return v.String(), nil
	}
	raw, err := phpserial.Marshal(value)
	return string(raw), err
}
