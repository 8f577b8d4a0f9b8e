package prompt

const docstringTemplate = `Your task is to generate docstrings and add comments to the provided %[1]s code.
Also annotate every function signature with the type of each input and the type of the output.
Do not modify the code. It MUST stay in its current form. Insert a docstring for each function and add short comments where necessary.
Remove blocks of code that have been commented out.
If a parent class method is reached through super(), reference it as ':meth:` + "`MyBaseClass.some_method`" + `'.
For the output format, SHOW THE COMPLETE CODE with the added docstrings and comments:
` + "```%[2]s" + `
<%[1]s code>
` + "```" + `
Here is an example of a docstring for a function:
def calculate_area_of_rectangle(length, width):
    '''
    Calculate the area of a rectangle.

    Parameters:
    - length (float): The length of the rectangle.
    - width (float): The width of the rectangle.

    Returns:
    float: The area of the rectangle.
    '''
    area = length * width
    return area
`

const briefDocumentTemplate = `Your task is to create a README markdown document for the provided code.
Create a Markdown document describing the functionality, usage, and important details of the code. Assume the readers are developers who may need to understand, use, or contribute to the codebase.
Instructions:

Provide a title.
Provide a brief overview of the code's purpose and functionality.
Include any dependencies or prerequisites needed to run the code.
Explain how to use the code, including relevant function or method calls and key parameters.
If applicable, provide code examples or use cases that show the code in action.
Include information on configuration options or settings users may need to customize.
Highlight important design decisions, algorithms, or patterns used in the code.
Mention known issues, limitations, or future improvements.
Use proper Markdown formatting for headings, code blocks, lists, and other relevant elements.
`

const sectionedDocumentTemplate = `Create a README markdown document for the provided code using the following sections.

Project Title
-------------
Overview
--------
Give a brief overview of the code's purpose and functionality. Explain what problem it solves and its main features.
Dependencies
------------
List the dependencies or prerequisites needed to run the code and how to install them.
Usage
-----
Explain how to use the code, including relevant function or method calls and key parameters. Show how to integrate it into other projects if applicable.
Code Examples
-------------
If applicable, provide code examples or use cases that illustrate common scenarios.
Configuration
-------------
Describe configuration options or settings and how users can adapt them.
Design Decisions
----------------
Highlight important design decisions, algorithms, or patterns and how they contribute to the functionality.
Known Issues and Limitations
----------------------------
Mention known issues, limitations, or bugs, with workarounds if available.
Future Improvements
-------------------
Outline features, enhancements, or optimizations that could be added later.
Contributing
------------
Give guidelines for submitting bug reports, feature requests, or pull requests.
License
-------
Specify the project's license, if applicable.

Use consistent Markdown formatting for headings, code blocks and lists.
`
