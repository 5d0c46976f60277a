package content

// Default returns the content a fresh store is seeded with.
func Default() *Document {
	return &Document{
		HeroTitle:        "Hair by Ms. Stephanie",
		HeroSubtitle:     "Stress-Free Bridal Hair Stylist",
		HeroDescription:  "Luxury website design that leaves a lasting impression",
		AboutTitle:       "Invite high-end, luxury clients into your bridal hairstyling business",
		AboutDescription: "As a discerning brand with affluent clientele, your website needs to set the tone for your white glove experience. These clients expect the highest-level of service from their first touch point - and that starts on your website.",
		Services: []Service{
			{Name: "Bridal Hair Styling", Description: "Elegant bridal hairstyles for your special day"},
			{Name: "Wedding Party Hair", Description: "Beautiful styles for bridesmaids and family"},
			{Name: "Hair Consultations", Description: "Personalized consultations for your perfect look"},
		},
	}
}
