package profilestore

import (
	"context"
	"strings"

	"github.com/dalemusser/rishtahub/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListParams is the filter set for profile listings. Zero values mean
// "no filter on this dimension". PublicOnly forces the public-visible
// predicate regardless of Status/Published, so the public browse path
// cannot be widened by query tampering.
type ListParams struct {
	Gender     string
	City       string // case-insensitive substring match
	AgeMin     int
	AgeMax     int
	Status     string
	Published  *bool
	PublicOnly bool
}

// PublicVisibleFilter is the single source of the "publicly visible"
// predicate: approved and published.
func PublicVisibleFilter() bson.M {
	return bson.M{"status": "approved", "published": true}
}

func (p ListParams) filter() bson.M {
	f := bson.M{}

	if p.PublicOnly {
		for k, v := range PublicVisibleFilter() {
			f[k] = v
		}
	} else {
		if p.Status != "" {
			f["status"] = p.Status
		}
		if p.Published != nil {
			f["published"] = *p.Published
		}
	}

	if g := strings.ToLower(strings.TrimSpace(p.Gender)); g != "" {
		f["gender"] = g
	}
	if c := strings.TrimSpace(p.City); c != "" {
		// city_ci is stored folded, so a folded substring match is
		// case-insensitive without a regex "i" option.
		f["city_ci"] = bson.M{"$regex": primitive.Regex{Pattern: regexQuote(text.Fold(c))}}
	}

	age := bson.M{}
	if p.AgeMin > 0 {
		age["$gte"] = p.AgeMin
	}
	if p.AgeMax > 0 {
		age["$lte"] = p.AgeMax
	}
	if len(age) > 0 {
		f["age"] = age
	}

	return f
}

// List returns one page of profiles matching params, newest-created
// first, plus the total match count for pagination. Page is 1-based;
// values below 1 are treated as 1.
func (s *Store) List(ctx context.Context, params ListParams, page int) ([]ProfileRow, int64, error) {
	filter := params.filter()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip(page)).
		SetLimit(paging.Limit())

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var rows []ProfileRow
	for cur.Next(ctx) {
		var row ProfileRow
		if err := cur.Decode(&row); err != nil {
			return nil, 0, err
		}
		rows = append(rows, row)
	}
	return rows, total, cur.Err()
}

// ProfileRow is the projection used by listing screens.
type ProfileRow struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	FullName  string             `bson:"full_name"`
	Gender    string             `bson:"gender"`
	Age       int                `bson:"age"`
	City      string             `bson:"city"`
	Status    string             `bson:"status"`
	Published bool               `bson:"published"`
	Photos    []photoRow         `bson:"photos"`
	ViewCount int64              `bson:"view_count"`
}

type photoRow struct {
	URL       string `bson:"url"`
	IsPrimary bool   `bson:"is_primary"`
}

// PrimaryPhotoURL returns the row's primary photo URL, or "".
func (r ProfileRow) PrimaryPhotoURL() string {
	for _, ph := range r.Photos {
		if ph.IsPrimary {
			return ph.URL
		}
	}
	return ""
}

// regexQuote escapes regex metacharacters so user input matches
// literally.
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
