package query

import (
	"testing"

	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered search queries", t, func() {
		So(Remember("golang", 1), ShouldBeNil)
		So(Remember("go concurrency", 10), ShouldBeNil)

		Convey("Suggestions should come back sorted by rank", func() {
			suggestionCache = make(map[string][]*record)

			s := SuggestMany("go")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "go concurrency")
		})

		Convey("Suggest should return the top match", func() {
			suggestionCache = make(map[string][]*record)

			So(Suggest("go").MustGet(), ShouldEqual, "go concurrency")
			So(Suggest("nosuchquery").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions should honor the config switch", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("go"), ShouldBeEmpty)
		})

		Convey("Input should be sanitized", func() {
			So(sanitize("  GOLANG  "), ShouldEqual, "golang")
		})
	})
}
