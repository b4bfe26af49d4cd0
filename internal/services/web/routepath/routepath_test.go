package routepath

import "testing"

func TestSubscriptionRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		got  string
		want string
	}{
		{got: Subscription("abc"), want: "/app/subscriptions/abc"},
		{got: SubscriptionEdit(" abc "), want: "/app/subscriptions/abc/edit"},
		{got: SubscriptionDelete("a/b"), want: "/app/subscriptions/a%2Fb/delete"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("route = %q, want %q", tc.got, tc.want)
		}
	}
}
