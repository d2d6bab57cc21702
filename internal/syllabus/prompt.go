package syllabus

const systemPrompt = "You generate only valid, detailed academic planning JSON for each class day. Never produce non-JSON output."

// userPromptTemplate asks for the day-by-day roadmap. The syllabus text is
// appended where the final %s sits.
const userPromptTemplate = `You are a senior academic planner for university-level courses.
Your job is to analyze the following syllabus and build a day-by-day instructional roadmap in strict JSON format.
You must create a JSON array, where each element is a distinct instructional class day (skip entries about only policies, admin, grading, honor code, office hours, schedule/overview unless they are taught as actual content).

For each instructional day in your output, include:
- 'day': sequential integer starting at 1 (infer if not listed, and skip numbering admin/policy entries)
- 'date': string date if provided in syllabus, else null/""
- 'main_topic': the real curriculum subject taught that day (NOT policies or admin items)
- 'subtopics': list of detailed lesson modules, sections, demos for that day
- 'objectives': measurable learning goals/skills/competencies students should gain
- 'activities': list of labs, group work, in-class exercises, demonstrations, class discussions, etc.
- 'reading': all assigned chapters, papers, articles, links
- 'assignments': homework, quizzes, projects, presentations, milestones due for that day
- 'assessment_type': formal check (exam, quiz, project, peer review, etc) on this day, or blank if none
- 'resources': external links, software, slides, files, tools if in syllabus
- 'learning_outcomes': explicit or inferred learning outcomes (use objectives if not separated)

Strict instructions:
- Only count/number actual content/instructional days. Ignore any admin/policy-only entries unless they are truly being taught as material.
- If days are not clearly listed or numbering is mixed, infer a sequential order from syllabus structure, date headings, or context.
- NEVER merge or group multiple days. Output one entry per class day.
- If multiple subjects are taught in one day, use subtopics but keep one day entry.
- Always include "Midterm Exam" or "Final Exam" days as entries, even if missing other details.
- DO NOT output any text except a single, syntactically correct JSON array. No markdown, comments, explanations, or code -- just the plain JSON.

Here is the syllabus to analyze:
%s`
