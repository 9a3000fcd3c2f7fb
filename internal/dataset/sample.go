// Package dataset provides training corpora for the detector: a built-in
// demonstration set and a CSV loader for external data.
package dataset

import "github.com/mikey/phishing-detector/internal/core"

// SampleCorpus returns the built-in balanced demonstration corpus: ten
// phishing and ten legitimate emails. It is small but covers the common
// phishing patterns (urgency, prizes, credential harvesting, brand
// impersonation), enough to exercise the full training path.
func SampleCorpus() []core.LabeledEmail {
	return []core.LabeledEmail{
		{Subject: "URGENT: Your account will be suspended!", Body: "Dear customer, your account will be suspended unless you click here immediately and verify your information. Act now!", Label: 1},
		{Subject: "Congratulations! You won $1,000,000!", Body: "You are our lucky winner! Click here to claim your prize. Limited time offer, don't delay!", Label: 1},
		{Subject: "Security Alert: Unusual Activity", Body: "We detected unusual activity on your account. Click here to secure your account immediately or it will be locked.", Label: 1},
		{Subject: "PayPal: Verify Your Account", Body: "Your PayPal account has been limited. Please verify your information by clicking the link below to restore access.", Label: 1},
		{Subject: "Bank Alert: Suspicious Transaction", Body: "We noticed a suspicious transaction on your account. Please confirm your identity by providing your login details.", Label: 1},
		{Subject: "IRS: Tax Refund Available", Body: "You have a tax refund of $2,847 waiting. Click here to claim it now before it expires.", Label: 1},
		{Subject: "Amazon: Order Confirmation Required", Body: "Your order for $899.99 needs confirmation. If you didn't make this purchase, click here to cancel immediately.", Label: 1},
		{Subject: "Microsoft: Account Compromised", Body: "Your Microsoft account has been compromised. Click here to change your password and secure your account.", Label: 1},
		{Subject: "Free iPhone 15 - Limited Time!", Body: "Congratulations! You've been selected to receive a FREE iPhone 15. Click here to claim your prize now!", Label: 1},
		{Subject: "Netflix: Payment Failed", Body: "Your Netflix payment has failed. Update your payment information immediately to avoid service interruption.", Label: 1},

		{Subject: "Meeting scheduled for tomorrow", Body: "Hi, I wanted to confirm our meeting scheduled for tomorrow at 2 PM. Please let me know if you need to reschedule.", Label: 0},
		{Subject: "Project update", Body: "Please find attached the latest project update. Let me know if you have any questions or need clarification.", Label: 0},
		{Subject: "Weekly team standup", Body: "Our weekly team standup is scheduled for Friday at 10 AM. We'll discuss project progress and upcoming tasks.", Label: 0},
		{Subject: "Invoice #12345", Body: "Please find attached invoice #12345 for services rendered last month. Payment is due within 30 days.", Label: 0},
		{Subject: "Conference registration confirmation", Body: "Thank you for registering for the Tech Conference 2024. Your registration has been confirmed.", Label: 0},
		{Subject: "Newsletter: Tech Updates", Body: "Here are the latest technology updates and industry news for this week. Enjoy reading!", Label: 0},
		{Subject: "Birthday party invitation", Body: "You're invited to Sarah's birthday party this Saturday at 7 PM. Please RSVP by Thursday.", Label: 0},
		{Subject: "Quarterly report ready", Body: "The quarterly financial report is now ready for review. Please check the shared folder for the document.", Label: 0},
		{Subject: "Training session reminder", Body: "Reminder: The mandatory training session is tomorrow at 3 PM in Conference Room A.", Label: 0},
		{Subject: "Welcome to the team!", Body: "Welcome to our team! We're excited to have you on board. Your first day orientation is scheduled for Monday.", Label: 0},
	}
}
