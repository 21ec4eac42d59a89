package store

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Documents read back from Mongo arrive with driver types: datetimes as
// bson.DateTime, arrays as bson.A. The store must hand repositories the
// neutral shapes instead, or scope lists and expiry timestamps silently
// vanish behind failed type assertions.
func TestNormalizeDocAfterBSONRoundTrip(t *testing.T) {
	expiry := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Millisecond)
	doc := Document{
		"username":   "alice",
		"scopes":     []string{"moderator", "user"},
		"otp_expiry": expiry,
	}

	// Marshal and unmarshal exactly the way the driver decodes a find result.
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var decoded bson.M
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}

	got := normalizeDoc(Document(decoded))

	ts, ok := got["otp_expiry"].(time.Time)
	if !ok {
		t.Fatalf("otp_expiry has type %T, want time.Time", got["otp_expiry"])
	}
	if !ts.Equal(expiry) {
		t.Errorf("otp_expiry = %v, want %v", ts, expiry)
	}

	list, ok := got["scopes"].([]interface{})
	if !ok {
		t.Fatalf("scopes has type %T, want []interface{}", got["scopes"])
	}
	if len(list) != 2 || list[0] != "moderator" || list[1] != "user" {
		t.Errorf("scopes = %v, want [moderator user]", list)
	}
}

func TestNormalizeDocNestedValues(t *testing.T) {
	when := time.Now().UTC().Truncate(time.Millisecond)
	doc := Document{
		"nested": bson.M{"at": bson.NewDateTimeFromTime(when)},
		"list":   bson.A{bson.NewDateTimeFromTime(when)},
	}

	got := normalizeDoc(doc)

	nested, ok := got["nested"].(map[string]interface{})
	if !ok {
		t.Fatalf("nested has type %T, want map[string]interface{}", got["nested"])
	}
	if ts, ok := nested["at"].(time.Time); !ok || !ts.Equal(when) {
		t.Errorf("nested.at = %v (%T), want %v", nested["at"], nested["at"], when)
	}

	list, ok := got["list"].([]interface{})
	if !ok {
		t.Fatalf("list has type %T, want []interface{}", got["list"])
	}
	if ts, ok := list[0].(time.Time); !ok || !ts.Equal(when) {
		t.Errorf("list[0] = %v (%T), want %v", list[0], list[0], when)
	}
}
