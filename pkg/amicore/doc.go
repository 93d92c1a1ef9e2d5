/*
Package amicore routes Asterisk Manager Interface events.

A Dispatcher takes classified event records from one AMI connection, in the
order the connection delivered them, and sends each record to exactly one
place:

  - a pending correlated request, when the record carries the request's
    ActionID and is one of its list entries or its terminator;
  - the subscribers of the record's category otherwise.

# Basic Usage

	d, err := amicore.New(amicore.WithLogger(logger))
	if err != nil {
	    log.Fatal(err)
	}
	defer d.Close()

	// Long-lived observers.
	d.Subscribe(taxonomy.CategoryQueue, event.HandlerFunc(
	    func(ctx context.Context, rec *event.Record) error {
	        log.Printf("%s agent=%s", rec.Name(), rec.Value("Agent"))
	        return nil
	    }))

	// A list request. Send the action with pending.Token() as its ActionID.
	pending, err := d.IssueCorrelated(ctx, []string{"AorListComplete"},
	    amicore.WithTimeout(5*time.Second))
	if err != nil {
	    log.Fatal(err)
	}

	go d.Run(ctx, source) // feeds records read from the connection

	res, err := pending.Wait(ctx)
	if err == nil && res.Completed() {
	    fmt.Println(len(res.Entries), "endpoints")
	}

# Correlation

A correlation ends exactly once: Completed when its terminator arrives,
TimedOut with the partial entries at its deadline, Cancelled through Cancel
or its context, or Disconnected through FlushAll. Run flushes every open
correlation when its source ends, so no caller waits forever on a dead
connection.

Which terminators close a request is supplied by the caller. An empty list
accepts any list terminator carrying the token.

# Unknown Events

Event names missing from the taxonomy are tolerated by default: they are
logged (rate limited) and fanned out to taxonomy.CategoryUnknown and
taxonomy.CategoryAny subscribers. Settings can reject them per category,
using the event's Privilege header as the category hint; rejected records
are parked in the dead letter queue.

# Observability

	d, _ := amicore.New(
	    amicore.WithLogger(logger),
	    amicore.WithMetrics(true),
	    amicore.WithTracing(true),
	)

Metrics are recorded through the global OpenTelemetry meter provider under
the amicore.* names; each correlated request is a span named
amicore.correlation.

# Packages

  - taxonomy: the closed event catalogue, categories and roles
  - event: records, field filters and handlers
  - correlate: the correlation tracker
  - subscription: category subscriptions with per-subscriber mailboxes
  - deadletter: parking for records that could not be delivered
  - config: YAML and JSON settings
  - errors: error categories and retry
  - observability: logging, metrics and tracing helpers
*/
package amicore
