package content

const aboutMe = `I am a passionate Front-End Developer with an educational background in Software Engineering. I have strong adaptability to new environments, excellent teamwork skills, and a continuous eagerness to learn and explore new technologies. I strive to build user-friendly and visually compelling interfaces while constantly improving my skills in modern front-end development.`

// Display order of the sidebar follows this slice.
var sections = []Section{
	{
		SidebarName: "About",
		SidebarIcon: "icons/about",
		Title:       "About Me",
		Description: Text(aboutMe),
	},
	{
		SidebarName: "Education",
		SidebarIcon: "icons/education",
		Title:       "Educations",
		Description: Component(EducationList),
	},
}

// Newest first.
var educations = []Education{
	{
		Name:        "Pelita Harapan University",
		Year:        "2026-2029",
		Degree:      "Bachelor of Informatics Engineering",
		Description: "Currently studying AI and cognitive computing ",
		Image:       "images/uph",
	},
	{
		Name:        "Vocational High School 2 Jakarta",
		Year:        "2022-2025",
		Degree:      "Software Engineering",
		Description: "Focusing on full stack development and mobile development.",
		Image:       "images/smk",
	},
	{
		Name:        "Junior High School Maria Immaculata Marsudirini Jakarta",
		Year:        "2019-2022",
		Degree:      "Junior High School Degree",
		Description: "Learning basic programming such as python and scratch",
		Image:       "images/smp",
	},
}
