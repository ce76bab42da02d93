package topic

import "testing"

func ep(port uint16) Endpoint { return Endpoint{IP: [4]byte{127, 0, 0, 1}, Port: port} }

func TestRegisterNameIdempotent(t *testing.T) {
	ix := New()
	id1, err := ix.RegisterName("a/b/c")
	if err != nil {
		t.Fatalf("RegisterName: %v", err)
	}
	id2, err := ix.RegisterName("a/b/c")
	if err != nil {
		t.Fatalf("RegisterName: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("ids differ: %d != %d", id1, id2)
	}
	if id1 == 0 {
		t.Fatal("id 0 is reserved")
	}

	id3, err := ix.RegisterName("x/y")
	if err != nil {
		t.Fatalf("RegisterName: %v", err)
	}
	if id3 == id1 {
		t.Fatal("distinct names must get distinct ids")
	}
}

func TestSubscribeConcreteReplacesQoS(t *testing.T) {
	ix := New()
	id, _ := ix.RegisterName("a/b")
	ix.SubscribeID(id, ep(1), 0)
	ix.SubscribeID(id, ep(1), 2)

	got := ix.EndpointsForTopicID(id)
	if len(got) != 1 || got[0].QoS != 2 {
		t.Fatalf("got %+v, want single entry at qos 2", got)
	}
}

func TestUnsubscribeMissingIsError(t *testing.T) {
	ix := New()
	id, _ := ix.RegisterName("a/b")
	if err := ix.UnsubscribeID(id, ep(1)); err == nil {
		t.Fatal("expected error unsubscribing an endpoint that never subscribed")
	}
}

func TestWildcardPlusMatchesOneSegment(t *testing.T) {
	ix := New()
	ix.SubscribeFilter("a/+/c", ep(1), 1)

	if got := ix.EndpointsForTopicName("a/b/c"); len(got) != 1 {
		t.Fatalf("a/b/c should match a/+/c, got %v", got)
	}
	if got := ix.EndpointsForTopicName("a/b/x/c"); len(got) != 0 {
		t.Fatalf("a/b/x/c should not match a/+/c (+ is exactly one segment), got %v", got)
	}
}

func TestWildcardHashMatchesTrailingSegments(t *testing.T) {
	ix := New()
	ix.SubscribeFilter("a/#", ep(1), 1)

	for _, name := range []string{"a/b", "a/b/c", "a/b/c/d"} {
		if got := ix.EndpointsForTopicName(name); len(got) != 1 {
			t.Fatalf("%s should match a/#, got %v", name, got)
		}
	}
	if got := ix.EndpointsForTopicName("b/c"); len(got) != 0 {
		t.Fatalf("b/c should not match a/#, got %v", got)
	}
}

func TestDollarTopicsNotMatchedByLeadingWildcard(t *testing.T) {
	ix := New()
	ix.SubscribeFilter("+/stats", ep(1), 0)
	ix.SubscribeFilter("#", ep(2), 0)

	if got := ix.EndpointsForTopicName("$SYS/stats"); len(got) != 0 {
		t.Fatalf("$SYS/stats must not match a leading wildcard filter, got %v", got)
	}
}

func TestUnsubscribeInvalidatesWildcardCache(t *testing.T) {
	ix := New()
	ix.SubscribeFilter("a/#", ep(1), 0)
	if got := ix.EndpointsForTopicName("a/b"); len(got) != 1 {
		t.Fatalf("expected one match before unsubscribe, got %v", got)
	}
	if err := ix.UnsubscribeFilter("a/#", ep(1)); err != nil {
		t.Fatalf("UnsubscribeFilter: %v", err)
	}
	if got := ix.EndpointsForTopicName("a/b"); len(got) != 0 {
		t.Fatalf("expected no match after unsubscribe, got %v", got)
	}
}

// TestEndpointsForPublishIDReachesWildcardSubscribers covers the bug a
// PUBLISH handler would otherwise hit: a wire PUBLISH carries only a
// topic-id, and EndpointsForTopicID alone never resolves that id back
// to a name, so it can't see subscribers of a wildcard filter on that
// name. EndpointsForPublishID must.
func TestEndpointsForPublishIDReachesWildcardSubscribers(t *testing.T) {
	ix := New()
	id, _ := ix.RegisterName("a/b/c")
	ix.SubscribeFilter("a/+/c", ep(1), 1)
	ix.SubscribeID(id, ep(2), 0)

	got := ix.EndpointsForPublishID(id)
	if len(got) != 2 {
		t.Fatalf("expected both the wildcard and the concrete subscriber, got %+v", got)
	}

	if got := ix.EndpointsForTopicID(id); len(got) != 1 {
		t.Fatalf("EndpointsForTopicID must stay concrete-only, got %+v", got)
	}
}

// TestEndpointsForPublishIDFallsBackWithoutRegisteredName covers a
// predefined id with no registered name: there is nothing for a
// wildcard filter to match against, so this must behave exactly like
// EndpointsForTopicID.
func TestEndpointsForPublishIDFallsBackWithoutRegisteredName(t *testing.T) {
	ix := New()
	const predefinedID = 1
	ix.SubscribeID(predefinedID, ep(1), 0)

	got := ix.EndpointsForPublishID(predefinedID)
	if len(got) != 1 || got[0].Endpoint != ep(1) {
		t.Fatalf("expected the concrete subscriber of the unregistered id, got %+v", got)
	}
}

func TestRemoveEndpointClearsEverySet(t *testing.T) {
	ix := New()
	id, _ := ix.RegisterName("a/b")
	ix.SubscribeID(id, ep(1), 0)
	ix.SubscribeFilter("a/#", ep(1), 0)

	ix.RemoveEndpoint(ep(1))

	if got := ix.EndpointsForTopicID(id); len(got) != 0 {
		t.Fatalf("expected no concrete subscribers after RemoveEndpoint, got %v", got)
	}
	if got := ix.EndpointsForTopicName("a/b"); len(got) != 0 {
		t.Fatalf("expected no filter subscribers after RemoveEndpoint, got %v", got)
	}
}
