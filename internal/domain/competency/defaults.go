package competency

// Default returns the current five-competency model. Legacy keys from the
// ten-competency model are folded in through aliases:
// problem_solving, digital_literacy and creativity into critical_thinking,
// self_regulation into emotional_intelligence, adaptability into time_management.
func Default() *Catalog {
	c, err := New(defaultCompetencies(), defaultAliases(), defaultResources())
	if err != nil {
		// static data; a failure here is a programming error
		panic(err)
	}
	return c
}

func defaultCompetencies() []Competency {
	return []Competency{
		{
			Key:  CriticalThinking,
			Name: "Critical thinking and problem solving",
			Description: "Analysing information, finding cause and effect, making well-founded decisions and " +
				"solving complex problems systematically. Includes a creative approach to problems and digital literacy.",
			CareerFields: []string{
				"Analytics", "Research", "Consulting", "IT", "Finance", "Law", "Engineering", "Science",
				"Business analysis", "Data Science", "Cybersecurity", "R&D", "Product development",
			},
		},
		{
			Key:          Communication,
			Name:         "Communication",
			Description:  "Interacting effectively, expressing ideas clearly and working with others.",
			CareerFields: []string{"HR", "Sales", "PR", "Management", "Journalism", "Education", "Marketing", "Advertising"},
		},
		{
			Key:  EmotionalIntelligence,
			Name: "Emotional intelligence and self-regulation",
			Description: "Understanding one's own and other people's emotions, empathy and managing relationships. " +
				"Includes emotional control, adapting to change, stress resistance and motivation.",
			CareerFields: []string{
				"Psychology", "Education", "Social work", "Management", "Medicine", "Coaching", "Startups",
				"Project management", "High-pressure roles", "Leadership", "Crisis management",
			},
		},
		{
			Key:  TimeManagement,
			Name: "Time management and adaptability",
			Description: "Planning, prioritising and organising work efficiently. " +
				"Includes adapting quickly to change and managing shifting priorities.",
			CareerFields: []string{
				"Project management", "Administration", "Operations management", "Any field", "Startups",
				"IT", "Consulting", "Retail", "Service",
			},
		},
		{
			Key:          Teamwork,
			Name:         "Teamwork",
			Description:  "Working productively in a group and reaching shared goals.",
			CareerFields: []string{"Any team-based field", "Sports", "Manufacturing", "Service", "Management", "HR"},
		},
	}
}

func defaultAliases() map[Key]Key {
	return map[Key]Key{
		Creativity:      CriticalThinking,
		ProblemSolving:  CriticalThinking,
		DigitalLiteracy: CriticalThinking,
		SelfRegulation:  EmotionalIntelligence,
		Adaptability:    TimeManagement,
	}
}

func defaultResources() map[Key]Resources {
	return map[Key]Resources{
		CriticalThinking: {
			Courses: []string{
				"Logic and argumentation", "Data analysis", "Systems thinking", "Algorithms", "Systems analysis",
				"Digital tools", "Data Science", "Design thinking", "TRIZ",
			},
			Activities: []string{
				"Case solving", "Debate clubs", "Reading scientific literature", "Olympiads", "Case championships",
				"Research projects", "Online courses", "IT projects", "Hackathons", "Creative projects",
			},
		},
		Communication: {
			Courses:    []string{"Public speaking", "Business communication", "Negotiation", "Marketing and advertising"},
			Activities: []string{"Debates", "Volunteering", "Student conferences", "Creative projects"},
		},
		EmotionalIntelligence: {
			Courses: []string{
				"Psychology of communication", "Conflict management", "Empathy", "Mindfulness", "Stress management",
				"Self-organisation", "Change management", "Agile",
			},
			Activities: []string{
				"EQ workshops", "Group therapy", "Mentoring", "Meditation", "Sports", "Yoga", "Breathing practice",
				"Working at startups", "New hobbies",
			},
		},
		TimeManagement: {
			Courses:    []string{"Time management", "GTD", "Productivity", "Change management", "Agile"},
			Activities: []string{"Daily planning", "Pomodoro technique", "Journaling", "Travel", "New hobbies"},
		},
		Teamwork: {
			Courses:    []string{"Teamwork", "Project management", "Facilitation"},
			Activities: []string{"Group projects", "Sports teams", "Volunteering"},
		},
	}
}
