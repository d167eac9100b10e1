package clanstore

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/identity"
)

// MongoStore implements Store against go.mongodb.org/mongo-driver/v2,
// mirroring the teacher's *Repository wrapper-over-a-client-handle
// shape (internal/db/clan_repository.go) with Mongo collection calls
// in place of pgx SQL statements.
type MongoStore struct {
	clans   *mongo.Collection
	players *mongo.Collection
}

// NewMongoStore wraps the "clans" and "players" collections of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		clans:   db.Collection("clans"),
		players: db.Collection("players"),
	}
}

// EnsureIndexes creates the unique index on clans.id, a lookup index
// on members.jid.username, and the unique compound index on
// (username, domain, region) in players — run once at boot, mirroring
// the teacher's internal/db/migrate.go "apply once at startup" posture.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.clans.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating clans.id index: %w", err)
	}

	_, err = s.clans.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members.jid.username", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating clans.members index: %w", err)
	}

	_, err = s.players.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}, {Key: "domain", Value: 1}, {Key: "region", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating players index: %w", err)
	}
	return nil
}

// --- BSON document shapes ---

type playerDoc struct {
	Username string `bson:"username"`
	Domain   string `bson:"domain"`
	Region   string `bson:"region"`
}

type jidDoc struct {
	Username string `bson:"username"`
	Domain   string `bson:"domain"`
	Region   string `bson:"region"`
}

type memberDoc struct {
	JID         jidDoc `bson:"jid"`
	Role        int32  `bson:"role"`
	Status      int32  `bson:"status"`
	OnlineName  string `bson:"online_name"`
	Description string `bson:"description"`
	AllowMsg    bool   `bson:"allow_msg"`
	BinData     []byte `bson:"bin_data"`
	Size        int32  `bson:"size"`
}

type announcementDoc struct {
	ID          uint32    `bson:"id"`
	Subject     string    `bson:"subject"`
	Msg         string    `bson:"msg"`
	Author      jidDoc    `bson:"author"`
	DateCreated time.Time `bson:"date_created"`
	DateExpire  time.Time `bson:"date_expire"`
	BinData     []byte    `bson:"bin_data"`
	FromID      int32     `bson:"from_id"`
}

type clanDoc struct {
	ID            uint32            `bson:"id"`
	Name          string            `bson:"name"`
	Tag           string            `bson:"tag"`
	Description   string            `bson:"description"`
	Members       []memberDoc       `bson:"members"`
	Blacklist     []jidDoc          `bson:"blacklist"`
	Announcements []announcementDoc `bson:"announcements"`
	DateCreated   time.Time         `bson:"date_created"`
	AutoAccept    bool              `bson:"auto_accept"`
	IntAttr1      int32             `bson:"int_attr1"`
	IntAttr2      int32             `bson:"int_attr2"`
	IntAttr3      int32             `bson:"int_attr3"`
	Size          int32             `bson:"size"`
	Platform      int32             `bson:"platform"`
}

func toJIDDoc(j identity.JID) jidDoc {
	return jidDoc{Username: j.Username, Domain: j.Domain, Region: j.Region}
}

func fromJIDDoc(d jidDoc) identity.JID {
	return identity.New(d.Username, d.Domain, d.Region)
}

func toDoc(c *clan.Clan) clanDoc {
	members := make([]memberDoc, len(c.Members))
	for i, m := range c.Members {
		members[i] = memberDoc{
			JID:         toJIDDoc(m.JID),
			Role:        int32(m.Role),
			Status:      int32(m.Status),
			OnlineName:  m.OnlineName,
			Description: m.Description,
			AllowMsg:    m.AllowMsg,
			BinData:     m.BinData,
			Size:        m.Size,
		}
	}
	blacklist := make([]jidDoc, len(c.Blacklist))
	for i, b := range c.Blacklist {
		blacklist[i] = toJIDDoc(b)
	}
	announcements := make([]announcementDoc, len(c.Announcements))
	for i, a := range c.Announcements {
		announcements[i] = announcementDoc{
			ID:          a.ID,
			Subject:     a.Subject,
			Msg:         a.Msg,
			Author:      toJIDDoc(a.Author),
			DateCreated: a.DateCreated,
			DateExpire:  a.DateExpire,
			BinData:     a.BinData,
			FromID:      a.FromID,
		}
	}
	return clanDoc{
		ID:            c.ID,
		Name:          c.Name,
		Tag:           c.Tag,
		Description:   c.Description,
		Members:       members,
		Blacklist:     blacklist,
		Announcements: announcements,
		DateCreated:   c.DateCreated,
		AutoAccept:    c.AutoAccept,
		IntAttr1:      c.IntAttr1,
		IntAttr2:      c.IntAttr2,
		IntAttr3:      c.IntAttr3,
		Size:          c.Size,
		Platform:      int32(c.Platform),
	}
}

func fromDoc(d clanDoc) *clan.Clan {
	members := make([]clan.Player, len(d.Members))
	for i, m := range d.Members {
		members[i] = clan.Player{
			JID:         fromJIDDoc(m.JID),
			Role:        identity.Role(m.Role),
			Status:      identity.Status(m.Status),
			OnlineName:  m.OnlineName,
			Description: m.Description,
			AllowMsg:    m.AllowMsg,
			BinData:     m.BinData,
			Size:        m.Size,
		}
	}
	blacklist := make([]identity.JID, len(d.Blacklist))
	for i, b := range d.Blacklist {
		blacklist[i] = fromJIDDoc(b)
	}
	announcements := make([]clan.Announcement, len(d.Announcements))
	for i, a := range d.Announcements {
		announcements[i] = clan.Announcement{
			ID:          a.ID,
			Subject:     a.Subject,
			Msg:         a.Msg,
			Author:      fromJIDDoc(a.Author),
			DateCreated: a.DateCreated,
			DateExpire:  a.DateExpire,
			BinData:     a.BinData,
			FromID:      a.FromID,
		}
	}
	return &clan.Clan{
		ID:            d.ID,
		Name:          d.Name,
		Tag:           d.Tag,
		Description:   d.Description,
		Members:       members,
		Blacklist:     blacklist,
		Announcements: announcements,
		DateCreated:   d.DateCreated,
		AutoAccept:    d.AutoAccept,
		IntAttr1:      d.IntAttr1,
		IntAttr2:      d.IntAttr2,
		IntAttr3:      d.IntAttr3,
		Size:          d.Size,
		Platform:      identity.Platform(d.Platform),
	}
}

func (s *MongoStore) Resolve(ctx context.Context, id uint32) (*clan.Clan, error) {
	var doc clanDoc
	err := s.clans.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving clan %d: %w", id, err)
	}
	return fromDoc(doc), nil
}

// Save replaces the document with matching id, inserting it if absent
// (upsert semantics, spec.md §4.2).
func (s *MongoStore) Save(ctx context.Context, c *clan.Clan) error {
	doc := toDoc(c)
	_, err := s.clans.ReplaceOne(ctx, bson.D{{Key: "id", Value: c.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving clan %d: %w", c.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, c *clan.Clan) error {
	_, err := s.clans.DeleteOne(ctx, bson.D{{Key: "id", Value: c.ID}})
	if err != nil {
		return fmt.Errorf("deleting clan %d: %w", c.ID, err)
	}
	return nil
}

func (s *MongoStore) ClansOf(ctx context.Context, jid identity.JID) ([]*clan.Clan, error) {
	cur, err := s.clans.Find(ctx, bson.D{{Key: "members.jid.username", Value: bson.D{{Key: "$regex", Value: "^" + regexp.QuoteMeta(jid.Username) + "$"}, {Key: "$options", Value: "i"}}}})
	if err != nil {
		return nil, fmt.Errorf("finding clans of %q: %w", jid.Username, err)
	}
	defer cur.Close(ctx)

	var out []*clan.Clan
	for cur.Next(ctx) {
		var doc clanDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding clan: %w", err)
		}
		out = append(out, fromDoc(doc))
	}
	return out, cur.Err()
}

// buildFilter translates a SearchFilter into a Mongo filter document,
// escaping regex metacharacters in the query per spec.md §4.5.
func buildFilter(f SearchFilter) bson.D {
	clauses := bson.A{}

	if f.Platform != nil {
		clauses = append(clauses, bson.D{{Key: "platform", Value: int32(*f.Platform)}})
	}

	if f.NameOrTag != "" && f.Op != OpAll {
		q := regexp.QuoteMeta(f.NameOrTag)
		var pattern string
		switch f.Op {
		case OpEq, OpNe:
			pattern = "^" + q + "$"
		case OpGtGe:
			pattern = "^" + q
		case OpLtLe:
			pattern = q + "$"
		case OpLk:
			pattern = q
		}
		nameClause := bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "tag", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
		}}}
		if f.Op == OpNe {
			clauses = append(clauses, bson.D{{Key: "$nor", Value: bson.A{nameClause}}})
		} else {
			clauses = append(clauses, nameClause)
		}
	}

	if len(clauses) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func (s *MongoStore) CountBy(ctx context.Context, f SearchFilter) (int64, error) {
	n, err := s.clans.CountDocuments(ctx, buildFilter(f))
	if err != nil {
		return 0, fmt.Errorf("counting clans: %w", err)
	}
	return n, nil
}

func (s *MongoStore) FindWithSkipLimit(ctx context.Context, f SearchFilter, skip, limit int) ([]*clan.Clan, error) {
	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit)).SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := s.clans.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("finding clans: %w", err)
	}
	defer cur.Close(ctx)

	var out []*clan.Clan
	for cur.Next(ctx) {
		var doc clanDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding clan: %w", err)
		}
		out = append(out, fromDoc(doc))
	}
	return out, cur.Err()
}

func (s *MongoStore) CountByNameOrTag(ctx context.Context, name, tag string) (int64, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: "^" + regexp.QuoteMeta(name) + "$"}, {Key: "$options", Value: "i"}}}},
		bson.D{{Key: "tag", Value: bson.D{{Key: "$regex", Value: "^" + regexp.QuoteMeta(tag) + "$"}, {Key: "$options", Value: "i"}}}},
	}}}
	n, err := s.clans.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("counting by name/tag: %w", err)
	}
	return n, nil
}

// NextID returns a random u32 id in [1, 1_000_000) not already in use,
// retrying on duplicate, mirroring spec.md §4.2's "assign a random id,
// retrying on duplicate-key conflict".
func (s *MongoStore) NextID(ctx context.Context) (uint32, error) {
	for i := 0; i < 20; i++ {
		id := uint32(1 + rand.IntN(999_999))
		n, err := s.clans.CountDocuments(ctx, bson.D{{Key: "id", Value: id}})
		if err != nil {
			return 0, fmt.Errorf("checking id %d: %w", id, err)
		}
		if n == 0 {
			return id, nil
		}
	}
	return 0, fmt.Errorf("exhausted id generation attempts")
}

// UpsertPlayer lazily records the (username, domain, region) triple on
// a successful get_clan_list call (spec.md §3 "Lifecycle").
func (s *MongoStore) UpsertPlayer(ctx context.Context, jid identity.JID) error {
	filter := bson.D{{Key: "username", Value: jid.Username}, {Key: "domain", Value: jid.Domain}, {Key: "region", Value: jid.Region}}
	_, err := s.players.UpdateOne(ctx, filter, bson.D{{Key: "$setOnInsert", Value: playerDoc{Username: jid.Username, Domain: jid.Domain, Region: jid.Region}}}, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upserting player %q: %w", jid.Username, err)
	}
	return nil
}

// FindPlayer looks up a player by username with platform-sensitive
// domain/region filters, per spec.md §4.6: Console requires
// domain != "un" && region != "br"; Emulator requires domain == "un"
// && region == "br".
func (s *MongoStore) FindPlayer(ctx context.Context, username string, platform identity.Platform) (*identity.JID, error) {
	filter := bson.D{{Key: "username", Value: username}}
	if platform == identity.PlatformConsole {
		filter = append(filter, bson.E{Key: "domain", Value: bson.D{{Key: "$ne", Value: "un"}}}, bson.E{Key: "region", Value: bson.D{{Key: "$ne", Value: "br"}}})
	} else {
		filter = append(filter, bson.E{Key: "domain", Value: "un"}, bson.E{Key: "region", Value: "br"})
	}

	var doc playerDoc
	err := s.players.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding player %q: %w", username, err)
	}
	jid := identity.New(doc.Username, doc.Domain, doc.Region)
	return &jid, nil
}
