package cmd

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/coursa-cli/coursa/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPromptCancellation(t *testing.T) {
	Convey("Given prompt outcomes", t, func() {
		Convey("An interrupt should count as a cancellation, not a failure", func() {
			So(canceled(terminal.InterruptErr), ShouldBeTrue)
			So(canceled(wrapped(terminal.InterruptErr)), ShouldBeTrue)
		})

		Convey("Other outcomes should not", func() {
			So(canceled(nil), ShouldBeFalse)
			So(canceled(errors.New("broken pipe")), ShouldBeFalse)
		})
	})
}

func wrapped(err error) error {
	return errors.Join(errors.New("ask"), err)
}
