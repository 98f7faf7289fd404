package kafka

const (
	TopicBookingConfirmed = "booking.confirmed"
	TopicDLQSuffix        = ".dlq"

	ErrorHeaderKey = "x-error"
)
