package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func stage(t *testing.T, pipeline []bson.D, name string) bson.D {
	t.Helper()
	for _, s := range pipeline {
		if len(s) > 0 && s[0].Key == name {
			return s
		}
	}
	t.Fatalf("pipeline has no %s stage", name)
	return nil
}

func TestEnquiryListPipelineJoinsPropertyTitle(t *testing.T) {
	pipeline := enquiryListPipeline()

	sort := stage(t, pipeline, "$sort")
	spec, ok := sort[0].Value.(bson.D)
	if !ok || len(spec) != 1 || spec[0].Key != "createdAt" || spec[0].Value != -1 {
		t.Errorf("$sort = %v, want createdAt descending", sort[0].Value)
	}

	lookup := stage(t, pipeline, "$lookup")
	fields := map[string]interface{}{}
	for _, e := range lookup[0].Value.(bson.D) {
		fields[e.Key] = e.Value
	}
	if fields["from"] != "properties" || fields["localField"] != "property" || fields["foreignField"] != "_id" {
		t.Errorf("$lookup = %v, must join properties on the enquiry's property reference", fields)
	}

	// The joined array must not leak into the response; only the extracted
	// title survives.
	stage(t, pipeline, "$addFields")
	project := stage(t, pipeline, "$project")
	if spec := project[0].Value.(bson.D); spec[0].Key != "propertyDoc" || spec[0].Value != 0 {
		t.Errorf("$project = %v, want propertyDoc dropped", project[0].Value)
	}
}
