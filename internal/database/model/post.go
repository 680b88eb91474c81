package model

import (
	"StoreImport/pkg/logging"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Post struct {
	ID      int64  `db:"ID"`
	Author  int64  `db:"post_author"`
	Date    string `db:"post_date"`
	Content string `db:"post_content"`
	Title   string `db:"post_title"`
	Excerpt string `db:"post_excerpt"`
	Status  string `db:"post_status"`
	Name    string `db:"post_name"`
	Type    string `db:"post_type"`
	GUID    string `db:"guid"`

	// written on insert only; WordPress declares them NOT NULL without a default
	DateGMT         string `db:"post_date_gmt"`
	Modified        string `db:"post_modified"`
	ModifiedGMT     string `db:"post_modified_gmt"`
	ToPing          string `db:"to_ping"`
	Pinged          string `db:"pinged"`
	ContentFiltered string `db:"post_content_filtered"`
}

// PostFilter selects posts of one type. Statuses empty means every status
// except ExcludeStatuses.
type PostFilter struct {
	Type            string
	Statuses        []string
	ExcludeStatuses []string
	MetaKey         string
	MetaValue       string
	HasMeta         bool
	Limit           int
	Offset          int
}

const postColumns = "p.ID, p.post_author, p.post_date, p.post_content, p.post_title, p.post_excerpt, p.post_status, p.post_name, p.post_type, p.guid"

func SelectPosts(db *sqlx.DB, t Tables, f PostFilter) ([]*Post, error) {
	logger := logging.GetLogger()
	logger.Debug("Start SelectPosts")
	defer logger.Debug("End SelectPosts")

	var b strings.Builder
	args := []interface{}{f.Type}

	fmt.Fprintf(&b, "SELECT %s FROM %s p WHERE p.post_type = ?", postColumns, t.Posts())
	if len(f.Statuses) > 0 {
		b.WriteString(" AND p.post_status IN (?" + strings.Repeat(", ?", len(f.Statuses)-1) + ")")
		for _, s := range f.Statuses {
			args = append(args, s)
		}
	} else if len(f.ExcludeStatuses) > 0 {
		b.WriteString(" AND p.post_status NOT IN (?" + strings.Repeat(", ?", len(f.ExcludeStatuses)-1) + ")")
		for _, s := range f.ExcludeStatuses {
			args = append(args, s)
		}
	}
	if f.HasMeta {
		fmt.Fprintf(&b, " AND EXISTS (SELECT 1 FROM %s m WHERE m.post_id = p.ID AND m.meta_key = ? AND m.meta_value = ?)", t.PostMeta())
		args = append(args, f.MetaKey, f.MetaValue)
	}
	b.WriteString(" ORDER BY p.post_date DESC, p.ID DESC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, f.Limit, f.Offset)
	}

	query := db.Rebind(b.String())
	var posts []*Post
	logger.Debugf("SELECT:\n%s%v", query, args)
	if err := db.Select(&posts, query, args...); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT posts; query:\n%s%v", query, args)
	}

	logger.Debugf("Rows: %d", len(posts))
	return posts, nil
}

func SelectPost(db *sqlx.DB, t Tables, id int64) (*Post, error) {
	var posts []*Post
	query := db.Rebind(fmt.Sprintf("SELECT %s FROM %s p WHERE p.ID = ?", postColumns, t.Posts()))
	if err := db.Select(&posts, query, id); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT post; query:\n%s(%d)", query, id)
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}

const postInsertColumns = "post_author, post_date, post_date_gmt, post_content, post_title, post_excerpt, post_status, post_name, " +
	"to_ping, pinged, post_modified, post_modified_gmt, post_content_filtered, post_type, guid"

// Insert stores the post and sets p.ID. Empty GMT and modified dates take
// post_date, the site clock is taken as UTC.
func (p *Post) Insert(db *sqlx.DB, t Tables) error {
	logger := logging.GetLogger()
	logger.Debug("Start Post.Insert")
	defer logger.Debug("End Post.Insert")

	for _, d := range []*string{&p.DateGMT, &p.Modified, &p.ModifiedGMT} {
		if *d == "" {
			*d = p.Date
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s)\nVALUES (%s)", t.Posts(), postInsertColumns,
		":"+strings.ReplaceAll(postInsertColumns, ", ", ", :"))
	logger.Debugf("INSERT:\n%s(%v)", query, p)
	res, err := db.NamedExec(query, p)
	if err != nil {
		return errors.Wrapf(err, "failed INSERT post; query:\n%s", query)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed LastInsertId")
	}
	p.ID = id
	return nil
}
