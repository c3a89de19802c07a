// Package linebot provides a multi-tenant bot toolkit for the LINE
// messaging platform.
//
// A Bot receives webhook callbacks, verifies their HMAC-SHA256
// signatures against per-tenant channel secrets, acknowledges the
// platform, and fans each event out to subscribers through a layered
// topic hierarchy. The same Bot sends outbound messages through the
// platform's REST API using per-tenant channel tokens.
//
// Key features:
//   - Per-tenant credential resolution (in-memory or Redis backed)
//   - Raw-body HMAC-SHA256 signature verification in constant time
//   - Acknowledge-then-dispatch: the webhook is answered before any
//     subscriber runs
//   - Layered topics: event, type, content kind, each with a
//     source-scoped variant (for example "text:group")
//   - Regex text routing with capture group submatches
//   - Fluent message builder with the platform's length limits applied
//
// Quick start:
//
//	resolver := memory.New()
//	resolver.Register("shop-bot", credentials.Credentials{
//	    Token:  channelToken,
//	    Secret: channelSecret,
//	})
//
//	bot, err := linebot.New(
//	    linebot.WithResolver(resolver),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bot.Subscribe(dispatch.TopicText, func(ctx context.Context, evt *event.Event) {
//	    bot.Reply(ctx, evt.Tenant, evt.ReplyToken, []any{
//	        map[string]any{"type": "text", "text": "hello"},
//	    })
//	})
//
//	bot.Start(ctx)
//	defer bot.Stop(ctx)
//	http.Handle("/webhook", bot.Webhook())
package linebot
