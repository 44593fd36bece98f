package compounddoc

// Collector accumulates validation issues without raising on first failure.
// One Collector is scoped to a single validation call and passed explicitly;
// it is never shared across calls.
type Collector struct {
	issues Issues
}

// Report appends one or more issues.
func (c *Collector) Report(iss ...Issue) {
	c.issues = AppendIssues(c.issues, iss...)
}

// HasIssues reports whether any issue has been collected.
func (c *Collector) HasIssues() bool { return len(c.issues) > 0 }

// Issues returns all collected issues in report order.
func (c *Collector) Issues() Issues { return c.issues }

// Merge folds another collector's issues into this one.
func (c *Collector) Merge(other *Collector) {
	if other == nil || len(other.issues) == 0 {
		return
	}
	c.issues = AppendIssues(c.issues, other.issues...)
}

// Err returns the collected issues as an error, or nil when none were
// reported.
func (c *Collector) Err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return c.issues
}
