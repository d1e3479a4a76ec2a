package lessons

// ── hello-triangle ───────────────────────────────────────────────────────────

const helloTriangleVertexShader = `#version 410 core

in vec2 vertexPosition;

void main() {
    gl_Position = vec4(vertexPosition, 0.0, 1.0);
}
`

const helloTriangleFragmentShader = `#version 410 core

out vec4 outputColor;

void main() {
    outputColor = vec4(0.294, 0.0, 0.51, 1.0);
}
`

// ── motion-and-color ─────────────────────────────────────────────────────────

// Shapes are authored around the origin and placed in surface pixels.
const motionVertexShader = `#version 410 core

in vec2 vertexPosition;
in vec3 vertexColor;

out vec3 fragmentColor;

uniform vec2 canvasSize;
uniform vec2 shapeLocation;
uniform float shapeSize;

void main() {
    fragmentColor = vertexColor;

    vec2 finalVertexPosition = vertexPosition * shapeSize + shapeLocation;
    vec2 clipPosition = (finalVertexPosition / canvasSize) * 2.0 - 1.0;

    gl_Position = vec4(clipPosition, 0.0, 1.0);
}
`

const vertexColorFragmentShader = `#version 410 core

in vec3 fragmentColor;
out vec4 outputColor;

void main() {
    outputColor = vec4(fragmentColor, 1.0);
}
`

// ── intro-to-3d ──────────────────────────────────────────────────────────────

const intro3DVertexShader = `#version 410 core

in vec3 vertexPosition;
in vec3 vertexColor;

out vec3 fragmentColor;

uniform mat4 matWorld;
uniform mat4 matViewProj;

void main() {
    fragmentColor = vertexColor;

    gl_Position = matViewProj * matWorld * vec4(vertexPosition, 1.0);
}
`

// ── blinn-phong ──────────────────────────────────────────────────────────────

const blinnPhongVertexShader = `#version 410 core

in vec3 vertexPosition;
in vec3 vertexNormal;

out vec3 fragmentPosition;
out vec3 fragmentColor;
out vec3 fragmentNormal;

uniform vec3 objectColor;
uniform mat4 matWorld;
uniform mat4 matViewProj;

void main() {
    fragmentColor = objectColor;

    // World scales are uniform, so matWorld transforms normals correctly.
    fragmentNormal = (matWorld * vec4(vertexNormal, 0.0)).xyz;
    vec4 worldPosition = matWorld * vec4(vertexPosition, 1.0);
    fragmentPosition = worldPosition.xyz;

    gl_Position = matViewProj * worldPosition;
}
`

const blinnPhongFragmentShader = `#version 410 core

in vec3 fragmentPosition;
in vec3 fragmentColor;
in vec3 fragmentNormal;

uniform vec3 lightPosition;
uniform vec3 cameraPosition;
uniform float ambientCoefficient;
uniform float specularPower;

out vec4 outputColor;

void main() {
    vec3 normal = normalize(fragmentNormal);
    vec3 ambientColor = ambientCoefficient * fragmentColor;

    vec3 lightDirection = normalize(lightPosition - fragmentPosition);
    float diffuseCoefficient = max(dot(lightDirection, normal), 0.0);
    vec3 diffuseColor = diffuseCoefficient * fragmentColor;

    vec3 viewDirection = normalize(cameraPosition - fragmentPosition);
    vec3 halfwayDirection = normalize(lightDirection + viewDirection);
    float specularCoefficient = pow(max(dot(normal, halfwayDirection), 0.0), specularPower);
    vec3 specularColor = vec3(specularCoefficient);

    outputColor = vec4(ambientColor + diffuseColor + specularColor, 1.0);
}
`
