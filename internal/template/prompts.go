package template

// Chat is the persona wrapper around every chat turn
const Chat = `You are Astrelium, an intelligent coding assistant. Be concise and helpful.

{task}

Context: {context}

Respond directly and efficiently.`

// CodeTask is inserted into Chat for code requests
const CodeTask = `TASK: Code modification/creation request.
- Read current file context carefully
- Provide specific, working code
- Use format: FILE: filename.ext with code blocks
- Include brief explanations`

// Debug is sent once after a failed compile
const Debug = `You are a debugging expert. Analyze this error and provide a fix:

Error: {error}

Provide a specific solution to fix this error. If it's a code issue, provide the corrected code with clear instructions on which file to modify and what changes to make.`

// prompts for the canned advanced commands

const Review = "Please review this code for:\n1. Code quality and best practices\n2. Potential bugs or security issues\n3. Performance improvements\n4. Maintainability suggestions\n\nCode:\n{code}"

const Architecture = "Based on this project analysis:\n{analysis}\n\nSuggest architectural improvements, design patterns, and best practices for this {project_type} project."

const Tests = "Generate comprehensive test suites for this code. Include unit tests, integration tests, and edge cases:\n\n{code}"

const Optimize = "Optimize this code for better performance, readability, and maintainability:\n\n{code}"

const Explain = "Explain this code in detail - what it does, how it works, and the logic behind each part:\n\n{code}"

const Documentation = "Generate comprehensive documentation for this project:\n{analysis}\n\nInclude README.md, API documentation, setup instructions, and user guides."

const Refactor = "Refactor this code using {pattern} pattern/approach:\n\n{code}"

const Security = "Perform a security audit of this project. Check for:\n1. Common vulnerabilities\n2. Dependency security issues\n3. Configuration problems\n4. Data exposure risks\n\nProject details:\n{analysis}"

const Migration = "Create a detailed migration plan to migrate this {from} project to {to}:\n\nCurrent project:\n{analysis}\n\nInclude steps, code examples, and potential challenges."

const Performance = "Analyze the performance of this code and suggest optimizations:\n\nProject type: {project_type}\nMain files:{files}"

const APIDocs = "Generate comprehensive API documentation for this project:\n\nProject: {project_type}\nAPI Code:{files}\n\nInclude endpoints, parameters, responses, examples, and OpenAPI/Swagger specifications."
