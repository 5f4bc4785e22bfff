package conversation

import (
	"fmt"

	"github.com/eventease/eventbot/catalog"
)

const welcomeText = `🎉 Welcome to EventEase Bot! 🎉

Here are the main features of our bot:

1. 📋 Event Categories List:
   - View all available event categories
   - Browse events within each category
   - Book your chosen event

2. ℹ️ Company Info:
   - Learn about EventEase and our specialties

3. 📞 Contact Us:
   - Get our contact information for further inquiries

How can I assist you today?`

const companyInfoText = `About EventEase

Welcome to EventEase! We specialize in providing seamless event booking experiences. Our platform offers a wide range of events, from cinema screenings to live music and comedy shows. Our mission is to make your event booking process as smooth and enjoyable as possible.`

const contactText = `📞 Contact Us

We'd love to hear from you! If you have any questions or need assistance, please reach out to us:

📧 Email: support@eventease.com
📱 Phone: +1-234-567-890

Our support team is available Monday to Friday, 9 AM to 6 PM.`

const (
	selectCategoryText   = "🌈 Please select an event category:"
	categoriesFailedText = "Sorry, we couldn't fetch event categories at the moment. Please try again later."
	eventsFailedText     = "Sorry, we couldn't fetch events at the moment. Please try again later."
	eventExpiredText     = "Sorry, the selected event was not found. Please pick one from the list."
	categoryExpiredText  = "That category is no longer listed. Please pick one from the list."
	namePromptText       = "✨ Wonderful choice! Let's proceed with the booking.\n\nPlease enter your name:"
	nameEmptyText        = "Please enter your name:"
	emailInvalidText     = "That doesn't look like an email address. Please enter your email:"
)

func noEventsText(category string) string {
	return fmt.Sprintf("Sorry, no events found in the %s category.", category)
}

func eventsHeaderText(category string) string {
	return fmt.Sprintf("Events in %s category:", category)
}

func categoryChosenText(category string) string {
	return fmt.Sprintf("You've selected the %s category. Please enter your name:", category)
}

func emailPromptText(name string) string {
	return fmt.Sprintf("Thanks, %s. Now, please enter your email:", name)
}

func eventDetailsText(ev *catalog.Event) string {
	return fmt.Sprintf(`🎭 Event: %s
🏷️ Category: %s
📅 Start: %s
🏁 End: %s
🔢 Priority: %d
👥 Participants: %d
📍 Location: %s
🎤 Organizer: %s

📝 Description: %s

Would you like to book this event?`,
		ev.Name, ev.Category, ev.StartDate, ev.EndDate,
		ev.Priority, ev.Participants, ev.Location, ev.Organizer,
		ev.Description,
	)
}
