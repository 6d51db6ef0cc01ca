package database

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func hasKeys(models []mongo.IndexModel, keys bson.D) bool {
	for _, m := range models {
		if reflect.DeepEqual(m.Keys, keys) {
			return true
		}
	}
	return false
}

func TestUserIndexEnforcesUniqueUsername(t *testing.T) {
	models := userIndexes()
	if len(models) != 1 {
		t.Fatalf("userIndexes() returned %d models, want 1", len(models))
	}
	m := models[0]
	if !reflect.DeepEqual(m.Keys, bson.D{{Key: "username", Value: 1}}) {
		t.Errorf("keys = %v, want username ascending", m.Keys)
	}
	if m.Options == nil || m.Options.Unique == nil || !*m.Options.Unique {
		t.Error("username index must be unique")
	}
}

func TestPropertyIndexesCoverFilterPatterns(t *testing.T) {
	models := propertyIndexes()
	wanted := []bson.D{
		{{Key: "type", Value: 1}, {Key: "category", Value: 1}},
		{{Key: "price", Value: 1}},
		{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}},
		{{Key: "createdAt", Value: -1}},
	}
	for _, keys := range wanted {
		if !hasKeys(models, keys) {
			t.Errorf("missing property index on %v", keys)
		}
	}
}

func TestEnquiryIndexesCoverListQuery(t *testing.T) {
	models := enquiryIndexes()
	for _, keys := range []bson.D{
		{{Key: "createdAt", Value: -1}},
		{{Key: "property", Value: 1}},
	} {
		if !hasKeys(models, keys) {
			t.Errorf("missing enquiry index on %v", keys)
		}
	}
}
