// Package email abstracts the outbound email transport used by the delivery
// dispatcher.
//
// Three Sender implementations are provided:
//
//   - PostmarkSender: production delivery through the Postmark transactional
//     API with open/link tracking.
//   - SimSender: simulated transport with a fixed latency and a configurable
//     failure probability, for demos and deterministic tests.
//   - DevSender: writes outbound mail to a local directory instead of
//     sending, for development without credentials.
//
// All implementations validate the message before sending and report
// failures as errors; the dispatcher maps any transport error to its
// service_error result.
package email
