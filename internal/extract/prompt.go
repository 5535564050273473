package extract

// SyllabusPrompt asks the model for one course-info object. The shape must
// stay in step with course.Record.
const SyllabusPrompt = `You are a data extraction assistant. Analyze the attached course syllabus PDF.
Extract the course information and strictly output valid JSON in the following format:

{
    "course-info": {
        "code": "ex. Cpsc 330",
        "title": "ex. Applied Machine Learning",
        "location": "ex. DMP 310",
        "resources": [
            { "name": "ex. Piazza", "link": "ex. piazza.com" }
        ],
        "contacts": [
            { "name": "ex. Prof. Steph", "position": "ex. instructor", "email": "ex. gtoti@cs.ubc.ca" }
        ],
        "homework": [
            {
                "name": "ex. Hw1",
                "due-date": "ex. 2025-09-09T23:59:00",
                "links": "ex. Gradescope link"
            }
        ],
        "meetings": [
            {
                "type": "ex. lecture/lab/tutorial",
                "lead": "ex. Prof. Steph",
                "day": "tuesday",
                "start_time": "ex. 15:30:00",
                "end_time": "ex. 16:50:00",
                "location": "DMP 310"
            }
        ],
        "Important-dates": [
            {
                "name": "ex. Holiday/Midterm 1",
                "date": "ex. 2026-01-01",
                "start_time": "ex. 15:30:00",
                "end_time": "ex. 16:50:00",
                "location": "ex. Information TBA"
            }
        ]
    }
}

If a specific field is not found, leave it as null or an empty string.
Ensure dates are in ISO8601 format where possible.
Don't include TAs as contacts.
Include the embedded links in the pdf under resources whenever possible.

Respond with ONLY the JSON object, no other text.`
