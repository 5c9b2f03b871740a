package graph

// Node properties use snake_case keys. Timestamps are RFC3339 strings.

const (
	qStudentCreate = `
CREATE (s:Student {
  name: $name,
  learning_style: $learning_style,
  class_mode: $class_mode,
  gpa: $gpa,
  repeat_count: $repeat_count,
  total_score: $total_score,
  registered_at: $now,
  updated_at: $now
})
RETURN s`

	qStudentGet = `MATCH (s:Student {name: $name}) RETURN s`

	qStudentList = `MATCH (s:Student) RETURN s ORDER BY s.name`

	qStudentUpdate = `
MATCH (s:Student {name: $name})
SET s.learning_style = $learning_style,
    s.class_mode = $class_mode,
    s.gpa = $gpa,
    s.repeat_count = $repeat_count,
    s.total_score = $total_score,
    s.updated_at = $now
RETURN s`

	qStudentSimilar = `
MATCH (s:Student {name: $name})
MATCH (peer:Student)
WHERE peer.name <> s.name
  AND peer.learning_style = s.learning_style
  AND peer.class_mode = s.class_mode
  AND abs(peer.gpa - s.gpa) <= $gpa_tolerance
  AND abs(peer.repeat_count - s.repeat_count) <= $repeat_tolerance
RETURN peer, peer.gpa - s.gpa AS gpa_diff, peer.repeat_count - s.repeat_count AS repeat_diff
ORDER BY peer.name`

	qInstructorCreate = `
CREATE (i:Instructor {
  name: $name,
  teaching_style: $teaching_style,
  class_mode: $class_mode,
  years_experience: $years_experience,
  evaluation: $evaluation,
  pass_rate: $pass_rate,
  availability: $availability,
  total_score: $total_score,
  registered_at: $now,
  updated_at: $now
})
RETURN i`

	qInstructorGet = `MATCH (i:Instructor {name: $name}) RETURN i`

	qInstructorList = `
MATCH (i:Instructor)
WHERE ($teaching_style = '' OR i.teaching_style = $teaching_style)
  AND ($class_mode = '' OR i.class_mode = $class_mode)
RETURN i ORDER BY i.name`

	qInstructorUpdate = `
MATCH (i:Instructor {name: $name})
SET i.teaching_style = $teaching_style,
    i.class_mode = $class_mode,
    i.years_experience = $years_experience,
    i.evaluation = $evaluation,
    i.pass_rate = $pass_rate,
    i.availability = $availability,
    i.total_score = $total_score,
    i.updated_at = $now
RETURN i`

	qInstructorCourses = `
MATCH (i:Instructor {name: $name})-[:TEACHES]->(c:Course)
RETURN c ORDER BY c.name, c.code`

	qCourseCreate = `
CREATE (c:Course {code: $code, name: $name, department: $department, credits: $credits})
RETURN c`

	qCourseGet = `MATCH (c:Course {code: $code}) RETURN c`

	qCourseList = `
MATCH (c:Course)
WHERE $department = '' OR toLower(c.department) = toLower($department)
RETURN c ORDER BY c.code`

	qCourseUpdate = `
MATCH (c:Course {code: $code})
SET c.name = $name, c.department = $department, c.credits = $credits
RETURN c`

	// Delete queries remove the node only when it has no relationships and
	// always return the relationship count. No row means no such node.
	qStudentDelete = `
MATCH (n:Student {name: $key})
OPTIONAL MATCH (n)-[r]-()
WITH n, count(r) AS rels
FOREACH (_ IN CASE WHEN rels = 0 THEN [1] ELSE [] END | DELETE n)
RETURN rels`

	qInstructorDelete = `
MATCH (n:Instructor {name: $key})
OPTIONAL MATCH (n)-[r]-()
WITH n, count(r) AS rels
FOREACH (_ IN CASE WHEN rels = 0 THEN [1] ELSE [] END | DELETE n)
RETURN rels`

	qCourseDelete = `
MATCH (n:Course {code: $key})
OPTIONAL MATCH (n)-[r]-()
WITH n, count(r) AS rels
FOREACH (_ IN CASE WHEN rels = 0 THEN [1] ELSE [] END | DELETE n)
RETURN rels`

	qAssignCourse = `
MATCH (i:Instructor {name: $instructor})
MATCH (c:Course {code: $course})
MERGE (i)-[t:TEACHES]->(c)
ON CREATE SET t.assigned_at = $now
RETURN i.name AS instructor`

	qUnassignCourse = `
MATCH (:Instructor {name: $instructor})-[t:TEACHES]->(:Course {code: $course})
DELETE t
RETURN count(*) AS removed`

	// Candidates for a course; instructors with no TEACHES edge are excluded.
	qCandidatesForCourse = `
MATCH (i:Instructor)-[:TEACHES]->(:Course {code: $course})
RETURN DISTINCT i ORDER BY i.name`

	qCandidatesAll = `MATCH (i:Instructor) RETURN i ORDER BY i.name`

	// Peers share both styles with the student and sit inside both tolerance
	// bands. passed counts distinct peers holding a PASSED_WITH edge to any
	// course the instructor TEACHES.
	qPeerOutcome = `
MATCH (s:Student {name: $student})
OPTIONAL MATCH (peer:Student)
WHERE peer.name <> s.name
  AND peer.learning_style = s.learning_style
  AND peer.class_mode = s.class_mode
  AND abs(peer.gpa - s.gpa) <= $gpa_tolerance
  AND abs(peer.repeat_count - s.repeat_count) <= $repeat_tolerance
OPTIONAL MATCH (peer)-[:PASSED_WITH]->(:Course)<-[:TEACHES]-(i:Instructor {name: $instructor})
WITH count(DISTINCT peer) AS peers,
     count(DISTINCT CASE WHEN i IS NULL THEN NULL ELSE peer END) AS passed
RETURN peers, passed`

	qUpsertRecommended = `
MATCH (s:Student {name: $student})
MATCH (i:Instructor {name: $instructor})
MERGE (s)-[r:RECOMMENDED]->(i)
SET r.compatibility_index = $score,
    r.confidence = $confidence,
    r.strategy_version = $version,
    r.computed_at = $now
RETURN r`

	qRecordPassed = `
MATCH (s:Student {name: $student})
MATCH (i:Instructor {name: $instructor})
MATCH (c:Course {code: $course})
MERGE (s)-[p:PASSED_WITH]->(c)
SET p.grade = coalesce($grade, p.grade),
    p.instructor = i.name,
    p.passed_at = $passed_at
MERGE (i)-[:TEACHES]->(c)
RETURN s.name AS student`

	qPing = `RETURN 1 AS ok`
)
