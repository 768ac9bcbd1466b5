package logging_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/wehagy/owpib/pkg/logging"
	h "github.com/wehagy/owpib/testhelpers"
)

func TestLogWithWriters(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "LogWithWriters", testLogWithWriters, spec.Sequential(), spec.Report(report.Terminal{}))
}

func testLogWithWriters(t *testing.T, when spec.G, it spec.S) {
	var (
		logger *logging.LogWithWriters
		outBuf bytes.Buffer
		errBuf bytes.Buffer
	)

	it.Before(func() {
		outBuf = bytes.Buffer{}
		errBuf = bytes.Buffer{}
		logger = logging.NewLogWithWriters(&outBuf, &errBuf)
	})

	it("sends info to stdout and errors to stderr", func() {
		logger.Info("hello")
		logger.Error("boom")

		h.AssertEq(t, outBuf.String(), "hello\n")
		h.AssertEq(t, errBuf.String(), "ERROR: boom\n")
	})

	it("prefixes warnings", func() {
		logger.Warn("careful")
		h.AssertEq(t, outBuf.String(), "Warning: careful\n")
	})

	it("suppresses debug output by default", func() {
		logger.Debug("hidden")
		h.AssertEq(t, outBuf.String(), "")
		h.AssertFalse(t, logger.IsVerbose())
	})

	it("emits debug output when verbose", func() {
		logger.WantVerbose(true)
		logger.Debugf("job %d", 7)
		h.AssertEq(t, outBuf.String(), "job 7\n")
		h.AssertTrue(t, logger.IsVerbose())
	})

	it("drops info when quiet", func() {
		logger.WantQuiet(true)
		logger.Info("hidden")
		logger.Warn("still visible")
		h.AssertEq(t, outBuf.String(), "Warning: still visible\n")
	})

	it("prepends timestamps on request", func() {
		logger = logging.NewLogWithWriters(&outBuf, &errBuf, logging.WithClock(func() time.Time {
			return time.Date(2024, 5, 17, 10, 4, 5, 0, time.UTC)
		}))
		logger.WantTime(true)
		logger.Info("stamped")
		h.AssertEq(t, outBuf.String(), "2024/05/17 10:04:05.000000 stamped\n")
	})
}
