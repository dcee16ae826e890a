package util_test

import (
	"testing"

	"auc-go/packages/compiler/src/util"
)

func TestSpan(t *testing.T) {
	t.Run("should treat the range as half open", func(t *testing.T) {
		span := util.NewSpan(2, 5)
		if !span.Contains(2) {
			t.Errorf("Expected span to contain its start")
		}
		if !span.Contains(4) {
			t.Errorf("Expected span to contain offset 4")
		}
		if span.Contains(5) {
			t.Errorf("Expected span not to contain its end")
		}
		if span.Length() != 3 {
			t.Errorf("Expected length 3, got %d", span.Length())
		}
	})

	t.Run("should shift both endpoints with MoveBy", func(t *testing.T) {
		span := util.NewSpan(2, 5).MoveBy(10)
		if span.Start != 12 || span.End != 15 {
			t.Errorf("Expected [12,15), got %s", span)
		}
	})
}

func TestSourceFile(t *testing.T) {
	file := util.NewSourceFile("<div>\nhello\n</div>", "app.html")

	t.Run("should re-slice the original content by span", func(t *testing.T) {
		text := file.Text(util.NewSpan(6, 11))
		if text != "hello" {
			t.Errorf("Expected %q, got %q", "hello", text)
		}
	})

	t.Run("should compute zero-based line and column", func(t *testing.T) {
		line, col := file.LineCol(6)
		if line != 1 || col != 0 {
			t.Errorf("Expected 1:0, got %d:%d", line, col)
		}
		line, col = file.LineCol(3)
		if line != 0 || col != 3 {
			t.Errorf("Expected 0:3, got %d:%d", line, col)
		}
	})
}

func TestDiagnosticSink(t *testing.T) {
	t.Run("should collect diagnostics and count per source", func(t *testing.T) {
		sink := util.NewDiagnosticSink("app.html")
		sink.Report("AUC900", "first", util.NewSpan(0, 1), util.SeverityWarning)
		sink.Report("AUC901", "second", util.NewSpan(1, 2), util.SeverityError)

		if len(sink.Diagnostics()) != 2 {
			t.Fatalf("Expected 2 diagnostics, got %d", len(sink.Diagnostics()))
		}
		if sink.CountFor("app.html") != 2 {
			t.Errorf("Expected count 2 for app.html, got %d", sink.CountFor("app.html"))
		}
		if sink.CountFor("other.html") != 0 {
			t.Errorf("Expected count 0 for other.html, got %d", sink.CountFor("other.html"))
		}
	})
}
